package router

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/session"
)

// AdminPrefix is the protected area.
const AdminPrefix = "/admin"

// Verifier checks a session token.
type Verifier interface {
	Verify(token string) (*session.Identity, error)
}

// Protected reports whether path falls under AdminPrefix.
func Protected(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// RouteGuard requires a verified admin identity for every request under
// AdminPrefix. A missing, invalid or expired token and a non-admin role all
// get the same redirect to loginPath with the requested URI as callbackUrl.
// Other paths pass through untouched.
func RouteGuard(sessions Verifier, loginPath string, logger *zap.SugaredLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Protected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			id, reason := authorize(sessions, r)
			if id == nil {
				logger.Debugw("admin access denied", "path", r.URL.Path, "reason", reason, "request_id", RequestID(r.Context()))
				redirectToLogin(w, r, loginPath)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
		})
	}
}

func authorize(sessions Verifier, r *http.Request) (*session.Identity, string) {
	token := session.TokenFromRequest(r)
	if token == "" {
		return nil, "no token"
	}
	id, err := sessions.Verify(token)
	if err != nil {
		return nil, "invalid token"
	}
	if !id.IsAdmin() {
		return nil, "not admin"
	}
	return id, ""
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	status := http.StatusFound
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, account.LoginPath(loginPath, r.URL.RequestURI()), status)
}
