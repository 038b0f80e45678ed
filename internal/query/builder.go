// Package query assembles parameterized list queries from an open set of
// optional predicates. Identifiers come from call sites and are validated;
// values are always bound as $n parameters.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadIdentifier is returned when a table or column name is not a plain
// lower-case SQL identifier.
var ErrBadIdentifier = errors.New("invalid sql identifier")

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Op is the comparison a Predicate applies.
type Op int

const (
	// OpEq is an exact match: column = $n.
	OpEq Op = iota
	// OpContains is a case-insensitive substring match over one or more columns.
	OpContains
)

// Predicate is a single condition of the WHERE clause.
type Predicate struct {
	Columns []string
	Op      Op
	Value   any
}

// Equal matches column = value.
func Equal(column string, value any) Predicate {
	return Predicate{Columns: []string{column}, Op: OpEq, Value: value}
}

// Contains matches any of columns ILIKE %term%. LIKE wildcards inside term
// are escaped so they match literally.
func Contains(term string, columns ...string) Predicate {
	return Predicate{Columns: columns, Op: OpContains, Value: "%" + EscapeLike(term) + "%"}
}

// EscapeLike escapes \, % and _ for use in an ILIKE pattern.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// DefaultKey is the unique column appended to every ordering so pagination is stable.
const DefaultKey = "id"

// Builder produces a count query and a windowed select that share one predicate set.
type Builder struct {
	table   string
	columns []string
	preds   []Predicate
	order   []Order
	key     string
	limit   int
	offset  int
}

// Select starts a builder over table returning columns.
func Select(table string, columns ...string) *Builder {
	return &Builder{table: table, columns: columns, key: DefaultKey}
}

// Where appends predicates; they are joined with AND.
func (b *Builder) Where(p ...Predicate) *Builder {
	b.preds = append(b.preds, p...)
	return b
}

// OrderBy appends ordering terms.
func (b *Builder) OrderBy(o ...Order) *Builder {
	b.order = append(b.order, o...)
	return b
}

// Key overrides the unique tie-break column (default "id").
func (b *Builder) Key(column string) *Builder {
	b.key = column
	return b
}

// Window sets LIMIT/OFFSET. A non-positive limit means no window.
func (b *Builder) Window(limit, offset int) *Builder {
	b.limit = limit
	if offset < 0 {
		offset = 0
	}
	b.offset = offset
	return b
}

// Count returns SELECT COUNT(*) with the shared predicates.
func (b *Builder) Count() (string, []any, error) {
	if err := b.validate(); err != nil {
		return "", nil, err
	}
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.table + where, args, nil
}

// Build returns the ordered, windowed select.
func (b *Builder) Build() (string, []any, error) {
	if err := b.validate(); err != nil {
		return "", nil, err
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("%w: no columns", ErrBadIdentifier)
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	where, args := b.where()
	sb.WriteString(where)

	terms := make([]string, 0, len(b.order)+1)
	hasKey := false
	for _, o := range b.order {
		if o.Column == b.key {
			hasKey = true
		}
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		terms = append(terms, o.Column+dir)
	}
	if !hasKey {
		terms = append(terms, b.key+" ASC")
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(terms, ", "))

	if b.limit > 0 {
		args = append(args, b.limit, b.offset)
		n := len(args)
		sb.WriteString(" LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n))
	}
	return sb.String(), args, nil
}

func (b *Builder) where() (string, []any) {
	if len(b.preds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(b.preds))
	args := make([]any, 0, len(b.preds))
	for _, p := range b.preds {
		args = append(args, p.Value)
		ph := "$" + strconv.Itoa(len(args))
		switch p.Op {
		case OpContains:
			alts := make([]string, len(p.Columns))
			for i, c := range p.Columns {
				alts[i] = c + " ILIKE " + ph
			}
			if len(alts) == 1 {
				parts = append(parts, alts[0])
			} else {
				parts = append(parts, "("+strings.Join(alts, " OR ")+")")
			}
		default:
			parts = append(parts, p.Columns[0]+" = "+ph)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (b *Builder) validate() error {
	if !identRe.MatchString(b.table) {
		return fmt.Errorf("%w: table %q", ErrBadIdentifier, b.table)
	}
	for _, c := range b.columns {
		if !identRe.MatchString(c) {
			return fmt.Errorf("%w: column %q", ErrBadIdentifier, c)
		}
	}
	for _, p := range b.preds {
		if len(p.Columns) == 0 {
			return fmt.Errorf("%w: predicate without column", ErrBadIdentifier)
		}
		for _, c := range p.Columns {
			if !identRe.MatchString(c) {
				return fmt.Errorf("%w: column %q", ErrBadIdentifier, c)
			}
		}
	}
	for _, o := range b.order {
		if !identRe.MatchString(o.Column) {
			return fmt.Errorf("%w: order column %q", ErrBadIdentifier, o.Column)
		}
	}
	if !identRe.MatchString(b.key) {
		return fmt.Errorf("%w: key %q", ErrBadIdentifier, b.key)
	}
	return nil
}
