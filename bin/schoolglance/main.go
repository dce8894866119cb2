package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/schoolglance/internal/profile"
	"github.com/hrygo/schoolglance/server"
)

// version is the current released version.
const version = "1.0.0"

const greetingBanner = `
 ██████╗ ██╗      █████╗ ███╗   ██╗ ██████╗███████╗
██╔════╝ ██║     ██╔══██╗████╗  ██║██╔════╝██╔════╝
██║  ███╗██║     ███████║██╔██╗ ██║██║     █████╗
██║   ██║██║     ██╔══██║██║╚██╗██║██║     ██╔══╝
╚██████╔╝███████╗██║  ██║██║ ╚████║╚██████╗███████╗
 ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝ ╚═════╝╚══════╝
`

var rootCmd = &cobra.Command{
	Use:   "schoolglance",
	Short: "A timetable and homework widget server for Satchel One",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:           viper.GetString("mode"),
			Addr:           viper.GetString("addr"),
			Port:           viper.GetInt("port"),
			Timezone:       viper.GetString("timezone"),
			UpstreamURL:    viper.GetString("upstream-url"),
			RateLimitRPS:   viper.GetFloat64("rate-limit-rps"),
			RateLimitBurst: viper.GetInt("rate-limit-burst"),
			Version:        version,
		}
		if secs := viper.GetInt("upstream-timeout"); secs > 0 {
			instanceProfile.UpstreamTimeout = time.Duration(secs) * time.Second
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		setupLogger(instanceProfile)

		s, err := server.NewServer(instanceProfile)
		if err != nil {
			slog.Error("failed to create server", slog.String("error", err.Error()))
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-c
			slog.Info("shutting down", slog.String("signal", sig.String()))
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Println(greetingBanner)
		if err := s.Start(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}

		<-ctx.Done()
	},
}

// setupLogger routes slog to stderr: readable text in dev, JSON in prod.
func setupLogger(prof *profile.Profile) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if prof.IsDev() {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8000, "port of server")
	rootCmd.PersistentFlags().String("timezone", "", "IANA zone widget times are rendered in (default Europe/London)")
	rootCmd.PersistentFlags().String("upstream-url", "", "Satchel API root (default https://api.satchelone.com/api)")
	rootCmd.PersistentFlags().Int("upstream-timeout", 0, "upstream request timeout in seconds (default 15)")
	rootCmd.PersistentFlags().Float64("rate-limit-rps", 0, "sustained per-student request rate (default 10)")
	rootCmd.PersistentFlags().Int("rate-limit-burst", 0, "per-student burst allowance (default 20)")

	for _, flag := range []string{"mode", "addr", "port", "timezone", "upstream-url", "upstream-timeout", "rate-limit-rps", "rate-limit-burst"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("schoolglance")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
