package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account"
	accountrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking"
	bookingrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact"
	contactrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download"
	downloadrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq"
	faqrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight"
	insightrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/notify"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/storage"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber"
	subscriberrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool"
	toolrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool/repo"
)

func newTestRoutes(t *testing.T) (http.Handler, sqlmock.Sqlmock, *session.Service) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "postgres")

	lg := zap.NewNop().Sugar()
	sessions := newSessions(t)
	qt := time.Second
	dispatcher := notify.NewDispatcher(notify.LogNotifier{Logger: lg}, lg, "office@example.com")
	files := storage.NewLocalStorage(t.TempDir(), "/uploads", 1<<20)
	accounts := account.NewService(accountrepo.NewAccountRepo(db, qt), account.BcryptHasher{Cost: 4}, lg)

	h := RegisterRoutes(Deps{
		Logger:         lg,
		DB:             db,
		Sessions:       sessions,
		Limiter:        NewLoginLimiter(10, lg),
		LoginPath:      "/login",
		CORSOrigins:    []string{"http://localhost:3000"},
		RequestTimeout: 5 * time.Second,
		UploadDir:      t.TempDir(),
		UploadPrefix:   "/uploads",

		Accounts:    account.NewHandler(accounts, sessions, lg, false),
		Contacts:    contact.NewHandler(contact.NewService(contactrepo.NewContactRepo(db, qt), dispatcher), lg),
		Bookings:    booking.NewHandler(booking.NewService(bookingrepo.NewBookingRepo(db, qt), dispatcher), lg),
		Downloads:   download.NewHandler(download.NewService(downloadrepo.NewDownloadRepo(db, qt), files), lg, 1<<20),
		FAQs:        faq.NewHandler(faq.NewService(faqrepo.NewFAQRepo(db, qt)), lg),
		Tools:       tool.NewHandler(tool.NewService(toolrepo.NewToolRepo(db, qt)), lg),
		Insights:    insight.NewHandler(insight.NewService(insightrepo.NewInsightRepo(db, qt)), lg),
		Subscribers: subscriber.NewHandler(subscriber.NewService(subscriberrepo.NewSubscriberRepo(db, qt)), lg),
	})
	return h, mock, sessions
}

func TestHealthAndReady(t *testing.T) {
	h, mock, _ := newTestRoutes(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	mock.ExpectPing()
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectPing().WillReturnError(assert.AnError)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h, mock, _ := newTestRoutes(t)
	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/admin"},
		{http.MethodGet, "/admin/api/faqs"},
		{http.MethodGet, "/admin/api/contacts/1"},
		{http.MethodPost, "/admin/api/faqs/import"},
		{http.MethodPut, "/admin/api/tools"},
		{http.MethodDelete, "/admin/api/insights?id=1"},
		{http.MethodPost, "/admin/api/accounts/password"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		assert.Contains(t, []int{http.StatusFound, http.StatusSeeOther}, rec.Code, tc.target)
		assert.Contains(t, rec.Header().Get("Location"), "/login?callbackUrl=", tc.target)
	}
	// nothing reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRouteWithSession(t *testing.T) {
	h, _, sessions := newTestRoutes(t)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: issue(t, sessions, session.RoleAdmin)})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)
}

func TestPublicRoutes(t *testing.T) {
	h, _, _ := newTestRoutes(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?callbackUrl=/admin/faqs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// contacts hold personal data and have no public listing
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
