package query

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// MaxPage caps the page number. Anything larger, including values that do
// not fit an int, is served as MaxPage, which is past the end of any table.
const MaxPage = math.MaxInt32

// Field names the optional exact-match filters a list endpoint understands.
type Field string

const (
	FieldStatus   Field = "status"
	FieldCategory Field = "category"
	FieldType     Field = "type"
	FieldAuthor   Field = "author"
	FieldRole     Field = "role"
)

// Filter is the per-request filter specification. Every field is optional;
// an empty value means "no constraint".
type Filter struct {
	Values          map[Field]string
	Search          string
	Featured        *bool
	Page            int
	Limit           int
	IncludeInactive bool
}

// ParseFilter reads a Filter from query-string values. page and limit that
// are missing, non-numeric or out of range fall back to 1 and defaultLimit;
// limit is capped at MaxLimit.
func ParseFilter(v url.Values, defaultLimit int) Filter {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	f := Filter{
		Values: make(map[Field]string),
		Search: strings.TrimSpace(v.Get("search")),
		Page:   parsePage(v.Get("page")),
		Limit:  positiveOr(v.Get("limit"), defaultLimit),
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	for _, field := range []Field{FieldStatus, FieldCategory, FieldType, FieldAuthor, FieldRole} {
		if s := strings.TrimSpace(v.Get(string(field))); s != "" && !strings.EqualFold(s, "all") {
			f.Values[field] = s
		}
	}
	if b, ok := parseBool(v.Get("featured")); ok {
		f.Featured = &b
	}
	if b, ok := parseBool(v.Get("include_inactive")); ok {
		f.IncludeInactive = b
	}
	return f
}

// Get returns the value for field ("" when absent).
func (f Filter) Get(field Field) string {
	if f.Values == nil {
		return ""
	}
	return f.Values[field]
}

// Set assigns a filter value, replacing any caller-supplied one.
func (f *Filter) Set(field Field, value string) {
	if f.Values == nil {
		f.Values = make(map[Field]string)
	}
	f.Values[field] = value
}

// Offset is the zero-based row offset of the requested page. It saturates
// at math.MaxInt instead of wrapping.
func (f Filter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

func parsePage(s string) int {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-"):
		return MaxPage
	case err != nil || n <= 0:
		return 1
	case n > MaxPage:
		return MaxPage
	}
	return n
}

func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}
