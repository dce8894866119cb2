package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schoolglance/plugin/satchel"
)

// missingHeadersMessage is returned verbatim when any credential header is
// absent, so widget clients can show the user which headers to configure.
const missingHeadersMessage = "Missing required headers: Authorization, X-User-Id, X-School-Id"

// credentialsFromRequest pulls the three upstream credentials out of the
// request headers. The alternate names cover widget launchers that strip
// the X- prefix before forwarding.
func credentialsFromRequest(r *http.Request) (satchel.Credentials, bool) {
	creds := satchel.Credentials{
		Bearer:   r.Header.Get("Authorization"),
		UserID:   headerFirst(r, "X-User-Id", "User-Id"),
		SchoolID: headerFirst(r, "X-School-Id", "School-Id"),
	}
	ok := creds.Bearer != "" && creds.UserID != "" && creds.SchoolID != ""
	return creds, ok
}

// headerFirst returns the first non-empty value among the named headers.
func headerFirst(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.Header.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// credentialKey buckets rate limiting by student. Requests without a user id
// fall back to the client IP inside the middleware.
func credentialKey(c echo.Context) string {
	return headerFirst(c.Request(), "X-User-Id", "User-Id")
}
