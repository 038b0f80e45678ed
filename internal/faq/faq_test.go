package faq

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq/repo"
)

var columns = []string{
	"id", "question", "answer", "category", "sort_order", "view_count", "helpful_count",
	"is_active", "created_at", "updated_at",
}

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := NewService(repo.NewFAQRepo(sqlx.NewDb(db, "postgres"), time.Second))
	n := 0
	svc.newID = func() string { n++; return "f" + strconv.Itoa(n) }
	return NewHandler(svc, zap.NewNop().Sugar()), mock
}

func TestCreateSanitizesAnswer(t *testing.T) {
	h, mock := setup(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO faqs (id, question, answer, category, sort_order)")).
		WithArgs("f1", "What is GST?", "<p>A tax</p>", "tax", 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("f1", "What is GST?", "<p>A tax</p>", "tax", 0, 0, 0, true, now, now))

	body := `{"question":" What is GST? ","answer":"<p onclick=\"x()\">A tax</p><script>alert(1)</script>","category":"Tax"}`
	rec := httptest.NewRecorder()
	h.Write.Create(rec, httptest.NewRequest(http.MethodPost, "/admin/api/faqs", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequiresCategory(t *testing.T) {
	h, mock := setup(t)
	rec := httptest.NewRecorder()
	h.Write.Create(rec, httptest.NewRequest(http.MethodPost, "/admin/api/faqs", strings.NewReader(`{"question":"Q","answer":"A","category":" "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"category"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportUpsertsEachItem(t *testing.T) {
	h, mock := setup(t)
	upsert := regexp.QuoteMeta("ON CONFLICT (lower(question)) DO UPDATE SET")
	mock.ExpectQuery(upsert).WithArgs("f1", "Q1", "A1", "general", 1).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))
	mock.ExpectQuery(upsert).WithArgs("f2", "q1", "A1 revised", "general", 0).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(false))

	body := `{"items":[{"question":"Q1","answer":"A1","category":"general","sort_order":1},{"question":"q1","answer":"A1 revised","category":"General"}]}`
	rec := httptest.NewRecorder()
	h.Import(rec, httptest.NewRequest(http.MethodPost, "/admin/api/faqs/import", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"created":1,"updated":1}}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportValidatesAllItemsFirst(t *testing.T) {
	h, mock := setup(t)
	body := `{"items":[{"question":"Q1","answer":"A1","category":"general"},{"question":"Q2","category":"general"}]}`
	rec := httptest.NewRecorder()
	h.Import(rec, httptest.NewRequest(http.MethodPost, "/admin/api/faqs/import", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"items[1].answer"`)

	rec = httptest.NewRecorder()
	h.Import(rec, httptest.NewRequest(http.MethodPost, "/admin/api/faqs/import", strings.NewReader(`{"items":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActions(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta("SET view_count = view_count + 1")).WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SET helpful_count = helpful_count + 1")).WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"helpful_count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SET view_count = view_count + 1")).WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"view_count"}))

	mux := http.NewServeMux()
	mux.Handle("PATCH /api/faqs/{id}", h.Action)
	do := func(id, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/faqs/"+id, strings.NewReader(body)))
		return rec
	}

	rec := do("f1", `{"action":"view"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
	rec = do("f1", `{"action":"HELPFUL"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Equal(t, http.StatusNotFound, do("gone", `{"action":"view"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do("f1", `{"action":"download"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do("f1", `{}`).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
