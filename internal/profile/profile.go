package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/schoolglance/plugin/satchel"
	"github.com/hrygo/schoolglance/server/timezone"
)

// Profile is the configuration to start the widget server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Timezone is the IANA zone widget times are rendered in
	Timezone string
	// UpstreamURL is the Satchel API root
	UpstreamURL string
	// UpstreamTimeout bounds each Satchel request
	UpstreamTimeout time.Duration
	// RateLimitRPS is the sustained per-student request rate
	RateLimitRPS float64
	// RateLimitBurst is the per-student burst allowance
	RateLimitBurst int
	// Version is the current version of server
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// ListenAddr is the address the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// FromEnv fills settings that are still unset from environment variables.
// Supports both SCHOOLGLANCE_* (new) and SATCHELWIDGET_* (legacy) prefixes;
// values already present, such as ones set from flags, are kept, and
// malformed numeric values are ignored so Validate can apply the defaults.
func (p *Profile) FromEnv() {
	getEnvWithFallback := func(newKey, legacyKey string) string {
		if val := os.Getenv(newKey); val != "" {
			return val
		}
		return os.Getenv(legacyKey)
	}

	if p.UpstreamURL == "" {
		p.UpstreamURL = getEnvWithFallback("SCHOOLGLANCE_UPSTREAM_URL", "SATCHELWIDGET_API_BASE")
	}
	if p.UpstreamTimeout == 0 {
		if v := getEnvWithFallback("SCHOOLGLANCE_UPSTREAM_TIMEOUT", "SATCHELWIDGET_TIMEOUT"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				p.UpstreamTimeout = time.Duration(secs) * time.Second
			}
		}
	}
	if p.RateLimitRPS == 0 {
		if v := os.Getenv("SCHOOLGLANCE_RATE_LIMIT_RPS"); v != "" {
			if rps, err := strconv.ParseFloat(v, 64); err == nil && rps > 0 {
				p.RateLimitRPS = rps
			}
		}
	}
	if p.RateLimitBurst == 0 {
		if v := os.Getenv("SCHOOLGLANCE_RATE_LIMIT_BURST"); v != "" {
			if burst, err := strconv.Atoi(v); err == nil && burst > 0 {
				p.RateLimitBurst = burst
			}
		}
	}
	if p.Timezone == "" {
		p.Timezone = os.Getenv("SCHOOLGLANCE_TIMEZONE")
	}
}

// Validate normalizes the profile in place and rejects settings the server
// cannot start with.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.Timezone == "" {
		p.Timezone = timezone.DefaultTimezone
	}
	if !timezone.IsValidTimezone(p.Timezone) {
		return errors.Errorf("invalid timezone %q", p.Timezone)
	}

	p.UpstreamURL = strings.TrimRight(p.UpstreamURL, "/")
	if p.UpstreamURL == "" {
		p.UpstreamURL = satchel.DefaultBaseURL
	}
	if p.UpstreamTimeout <= 0 {
		p.UpstreamTimeout = 15 * time.Second
	}

	if p.RateLimitRPS <= 0 {
		p.RateLimitRPS = 10
	}
	if p.RateLimitBurst <= 0 {
		p.RateLimitBurst = 20
	}

	return nil
}
