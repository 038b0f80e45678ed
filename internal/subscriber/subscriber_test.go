package subscriber

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber/repo"
)

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewService(repo.NewSubscriberRepo(sqlx.NewDb(db, "postgres"), time.Second))
	svc.newID = func() string { return "s1" }
	return NewHandler(svc, zap.NewNop().Sugar()), mock
}

func TestSubscribeNewAndExistingLookAlike(t *testing.T) {
	h, mock := setup(t)
	now := time.Now()
	cols := []string{"id", "email", "name", "source", "is_active", "created_at", "updated_at", "inserted"}
	upsert := regexp.QuoteMeta("ON CONFLICT (email) DO UPDATE SET")
	mock.ExpectQuery(upsert).WithArgs("s1", "sam@example.com", "Sam", "footer").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "sam@example.com", "Sam", "footer", true, now, now, true))
	mock.ExpectQuery(upsert).WithArgs("s1", "sam@example.com", "", "").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s0", "sam@example.com", "Sam", "footer", true, now, now, false))

	var bodies []string
	for _, payload := range []string{
		`{"email":" Sam@Example.com ","name":"Sam","source":"Footer"}`,
		`{"email":"sam@example.com"}`,
	} {
		rec := httptest.NewRecorder()
		h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(payload)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		bodies = append(bodies, rec.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeRejectsBadEmail(t *testing.T) {
	h, mock := setup(t)
	for _, payload := range []string{`{}`, `{"email":"nope"}`, `{"email":"Sam <sam@example.com>"}`} {
		rec := httptest.NewRecorder()
		h.Subscribe(rec, httptest.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(payload)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h, mock := setup(t)
	soft := regexp.QuoteMeta("UPDATE subscribers SET is_active = false")
	mock.ExpectQuery(soft).WithArgs("s1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery(soft).WithArgs("s1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery(soft).WithArgs("nobody").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/admin/api/subscribers?id=s1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/admin/api/subscribers?id=nobody", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/admin/api/subscribers", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
