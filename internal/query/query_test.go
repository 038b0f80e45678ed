package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderNoPredicates(t *testing.T) {
	b := Select("faqs", "id", "question").OrderBy(Asc("sort_order")).Window(20, 0)

	countSQL, countArgs, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM faqs", countSQL)
	assert.Empty(t, countArgs)

	sql, args, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, question FROM faqs ORDER BY sort_order ASC, id ASC LIMIT $1 OFFSET $2", sql)
	assert.Equal(t, []any{20, 0}, args)
}

func TestBuilderComposesPredicates(t *testing.T) {
	b := Select("downloads", "id", "title").
		Where(
			Equal("is_active", true),
			Equal("category", "tax"),
			Contains("vat", "title", "description"),
		).
		OrderBy(Desc("is_featured"), Desc("created_at")).
		Window(10, 10)

	countSQL, countArgs, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM downloads WHERE is_active = $1 AND category = $2 AND (title ILIKE $3 OR description ILIKE $3)",
		countSQL)
	assert.Equal(t, []any{true, "tax", "%vat%"}, countArgs)

	sql, args, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, title FROM downloads WHERE is_active = $1 AND category = $2 AND (title ILIKE $3 OR description ILIKE $3)"+
			" ORDER BY is_featured DESC, created_at DESC, id ASC LIMIT $4 OFFSET $5",
		sql)
	assert.Equal(t, []any{true, "tax", "%vat%", 10, 10}, args)
}

func TestBuilderNeverInterpolatesValues(t *testing.T) {
	evil := "x'; DROP TABLE accounts; --"
	b := Select("contacts", "id").Where(Equal("status", evil), Contains(evil, "name"))
	sql, args, err := b.Build()
	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, evil, args[0])
	assert.Equal(t, "%"+evil+"%", args[1])
}

func TestBuilderExplicitKeyOrder(t *testing.T) {
	sql, _, err := Select("tools", "id").OrderBy(Desc("id")).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM tools ORDER BY id DESC", sql)
}

func TestBuilderRejectsBadIdentifiers(t *testing.T) {
	cases := map[string]*Builder{
		"table":     Select("users; drop", "id"),
		"column":    Select("users", "id, password_hash"),
		"predicate": Select("users", "id").Where(Equal("1=1 OR email", "x")),
		"order":     Select("users", "id").OrderBy(Asc("created_at desc")),
		"empty":     Select("users", "id").Where(Predicate{Op: OpEq, Value: 1}),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := b.Build()
			assert.ErrorIs(t, err, ErrBadIdentifier)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, EscapeLike(`c:\tmp`))
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&limit=25", 3, 25},
		{"zero limit clamps to default", "limit=0", 1, 10},
		{"negative limit clamps to default", "limit=-5", 1, 10},
		{"non numeric", "page=abc&limit=xyz", 1, 10},
		{"capped", "limit=1000", 1, MaxLimit},
		{"negative page", "page=-2", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			f := ParseFilter(v, 10)
			assert.Equal(t, tt.wantPage, f.Page)
			assert.Equal(t, tt.wantLimit, f.Limit)
		})
	}
}

func TestParseFilterFields(t *testing.T) {
	v := url.Values{}
	v.Set("status", " published ")
	v.Set("category", "all")
	v.Set("search", "  vat  ")
	v.Set("featured", "true")
	v.Set("include_inactive", "1")
	v.Set("author", "")

	f := ParseFilter(v, 20)
	assert.Equal(t, "published", f.Get(FieldStatus))
	assert.Equal(t, "", f.Get(FieldCategory), "all means no constraint")
	assert.Equal(t, "", f.Get(FieldAuthor))
	assert.Equal(t, "vat", f.Search)
	require.NotNil(t, f.Featured)
	assert.True(t, *f.Featured)
	assert.True(t, f.IncludeInactive)

	f = ParseFilter(url.Values{"featured": {"maybe"}}, 20)
	assert.Nil(t, f.Featured)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, Filter{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 0, Filter{}.Offset())
	assert.Equal(t, math.MaxInt, Filter{Page: math.MaxInt, Limit: 10}.Offset())
}

func TestHugePageStaysPastTheEnd(t *testing.T) {
	for _, raw := range []string{"1000000000000000000", "99999999999999999999999", "2147483648"} {
		t.Run(raw, func(t *testing.T) {
			f := ParseFilter(url.Values{"page": {raw}, "limit": {"10"}}, 20)
			assert.Equal(t, MaxPage, f.Page)
			assert.Equal(t, (MaxPage-1)*10, f.Offset())

			_, args, err := Select("downloads", "id").Window(f.Limit, f.Offset()).Build()
			require.NoError(t, err)
			assert.Equal(t, []any{10, (MaxPage - 1) * 10}, args)

			p := NewPagination(f.Page, f.Limit, 15)
			assert.False(t, p.HasNext)
		})
	}
	assert.Equal(t, 1, ParseFilter(url.Values{"page": {"-99999999999999999999999"}}, 20).Page)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int64
		want        Pagination
	}{
		{"second and last page", 2, 10, 15, Pagination{2, 2, 15, 10, false, true}},
		{"first of two", 1, 10, 15, Pagination{1, 2, 15, 10, true, false}},
		{"beyond last page", 9, 10, 15, Pagination{9, 2, 15, 10, false, true}},
		{"empty result", 1, 20, 0, Pagination{1, 1, 0, 20, false, false}},
		{"exact multiple", 3, 10, 30, Pagination{3, 3, 30, 10, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit, tt.total))
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 1, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 0))
	assert.Equal(t, 3, CalculateTotalPages(25, 10))
}
