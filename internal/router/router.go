package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool"
)

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything RegisterRoutes mounts.
type Deps struct {
	Logger   *zap.SugaredLogger
	DB       Pinger
	Sessions Verifier
	Limiter  *LoginLimiter

	LoginPath      string
	CORSOrigins    []string
	RequestTimeout time.Duration
	UploadDir      string
	UploadPrefix   string

	Accounts    *account.Handler
	Contacts    *contact.Handler
	Bookings    *booking.Handler
	Downloads   *download.Handler
	FAQs        *faq.Handler
	Tools       *tool.Handler
	Insights    *insight.Handler
	Subscribers *subscriber.Handler
}

// adminCRUD is the shared admin surface of every entity handler.
type adminCRUD interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
}

// mountAdmin registers list, get, create, update, delete and restore under
// /admin/api/<name>. A nil update leaves PUT unregistered.
func mountAdmin(mux *http.ServeMux, name string, h adminCRUD, create, update http.HandlerFunc) {
	base := AdminPrefix + "/api/" + name
	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("POST "+base, create)
	if update != nil {
		mux.HandleFunc("PUT "+base, update)
	}
	mux.HandleFunc("DELETE "+base, h.Delete)
	mux.HandleFunc("POST "+base+"/restore", h.Restore)
}

// RegisterRoutes mounts HTTP handlers on a stdlib http.ServeMux and wraps
// them in the middleware chain.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.PingContext(ctx); err != nil {
			d.Logger.Warnw("readiness check failed", "err", err)
			httpx.Fail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth
	login := d.Limiter.Middleware(http.HandlerFunc(d.Accounts.Login))
	mux.HandleFunc("GET "+d.LoginPath, d.Accounts.LoginPage)
	mux.Handle("POST "+d.LoginPath, login)
	mux.Handle("POST /api/auth/login", login)
	mux.HandleFunc("POST /api/auth/logout", d.Accounts.Logout)
	mux.HandleFunc("GET /api/auth/session", d.Accounts.Session)

	// public site
	mux.HandleFunc("POST /api/contacts", d.Contacts.Submit)
	mux.HandleFunc("POST /api/bookings", d.Bookings.Request)
	mux.HandleFunc("POST /api/newsletter", d.Subscribers.Subscribe)
	mux.HandleFunc("GET /api/downloads", d.Downloads.PublicList)
	mux.HandleFunc("PATCH /api/downloads/{id}", d.Downloads.Action)
	mux.HandleFunc("GET /api/faqs", d.FAQs.PublicList)
	mux.HandleFunc("PATCH /api/faqs/{id}", d.FAQs.Action)
	mux.HandleFunc("GET /api/tools", d.Tools.PublicList)
	mux.HandleFunc("GET /api/insights", d.Insights.PublicList)
	mux.HandleFunc("GET /api/insights/{slug}", d.Insights.BySlug)
	mux.HandleFunc("PATCH /api/insights/{id}", d.Insights.Action)

	if d.UploadDir != "" && d.UploadPrefix != "" {
		prefix := strings.TrimSuffix(d.UploadPrefix, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, noListing(http.FileServer(http.Dir(d.UploadDir)))))
	}

	// admin; every route below is behind RouteGuard
	mux.HandleFunc("GET "+AdminPrefix, d.Accounts.Session)
	mountAdmin(mux, "accounts", d.Accounts, d.Accounts.Create, nil)
	mux.HandleFunc("POST "+AdminPrefix+"/api/accounts/password", d.Accounts.ChangePassword)
	mountAdmin(mux, "contacts", d.Contacts, d.Contacts.Write.Create, d.Contacts.Write.Update)
	mountAdmin(mux, "bookings", d.Bookings, d.Bookings.Write.Create, d.Bookings.Write.Update)
	mountAdmin(mux, "downloads", d.Downloads, d.Downloads.Create, d.Downloads.Write.Update)
	mountAdmin(mux, "faqs", d.FAQs, d.FAQs.Write.Create, d.FAQs.Write.Update)
	mux.HandleFunc("POST "+AdminPrefix+"/api/faqs/import", d.FAQs.Import)
	mountAdmin(mux, "tools", d.Tools, d.Tools.Write.Create, d.Tools.Write.Update)
	mountAdmin(mux, "insights", d.Insights, d.Insights.Write.Create, d.Insights.Write.Update)
	mountAdmin(mux, "subscribers", d.Subscribers, d.Subscribers.Write.Create, d.Subscribers.Write.Update)

	return Chain(mux,
		LoggingMiddleware(d.Logger),
		Recover(d.Logger),
		SecurityHeadersMiddleware(),
		onPrefix("/api/", CORSMiddleware(d.CORSOrigins)),
		Timeout(d.RequestTimeout),
		RouteGuard(d.Sessions, d.LoginPath, d.Logger),
	)
}

// onPrefix applies mw only to paths starting with prefix.
func onPrefix(prefix string, mw Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, prefix) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// noListing hides directory indexes from the upload file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
