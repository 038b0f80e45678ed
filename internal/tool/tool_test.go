package tool

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool/repo"
)

var columns = []string{
	"id", "name", "slug", "description", "category", "url", "icon", "is_featured",
	"is_active", "created_at", "updated_at",
}

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewService(repo.NewToolRepo(sqlx.NewDb(db, "postgres"), time.Second))
	svc.newID = func() string { return "t1" }
	return NewHandler(svc, zap.NewNop().Sugar()), mock
}

func TestCreateDerivesSlug(t *testing.T) {
	h, mock := setup(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tools (id, name, slug, description, category, url, icon, is_featured)")).
		WithArgs("t1", "Income Tax Calculator (2025)", "income-tax-calculator-2025", "", "tax", "/tools/income-tax", "", false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("t1", "Income Tax Calculator (2025)", "income-tax-calculator-2025", "", "tax", "/tools/income-tax", "", false, true, now, now))

	rec := httptest.NewRecorder()
	h.Write.Create(rec, httptest.NewRequest(http.MethodPost, "/admin/api/tools",
		strings.NewReader(`{"name":"Income Tax Calculator (2025)","category":"Tax","url":"/tools/income-tax"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"slug":"income-tax-calculator-2025"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateSlugConflicts(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery("INSERT INTO tools").WillReturnError(&pq.Error{Code: "23505"})

	rec := httptest.NewRecorder()
	h.Write.Create(rec, httptest.NewRequest(http.MethodPost, "/admin/api/tools",
		strings.NewReader(`{"name":"GST","slug":"GST Calc","category":"tax"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"slug already in use"}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsUnsafeURL(t *testing.T) {
	h, mock := setup(t)
	for _, u := range []string{"javascript:alert(1)", "//evil.example/x"} {
		rec := httptest.NewRecorder()
		h.Write.Create(rec, httptest.NewRequest(http.MethodPost, "/admin/api/tools",
			strings.NewReader(`{"name":"X","category":"tax","url":"`+u+`"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, u)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateKeepsSlugUnlessGiven(t *testing.T) {
	h, mock := setup(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tools SET name = COALESCE($2, name), slug = COALESCE($3, slug)")).
		WithArgs("t1", "Renamed", nil, nil, nil, nil, nil, true).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("t1", "Renamed", "gst", "", "tax", "", "", true, true, now, now))

	rec := httptest.NewRecorder()
	h.Write.Update(rec, httptest.NewRequest(http.MethodPut, "/admin/api/tools?id=t1",
		strings.NewReader(`{"name":"Renamed","is_featured":true}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"slug":"gst"`)

	rec = httptest.NewRecorder()
	h.Write.Update(rec, httptest.NewRequest(http.MethodPut, "/admin/api/tools?id=t1", strings.NewReader(`{"slug":"!!!"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
