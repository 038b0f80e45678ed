// Package resource implements the list / get / soft-delete contract shared by
// every back-office entity. Entities describe their table once and reuse Repo.
package resource

import (
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
)

// ActiveColumn is the soft-delete flag every resource table carries.
const ActiveColumn = "is_active"

// TouchUpdatedAt advances updated_at strictly, even when two writes land in
// the same clock tick.
const TouchUpdatedAt = "updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')"

// Table describes how an entity is listed.
type Table struct {
	Name    string
	Columns []string
	// Filters maps an exact-match filter to its column.
	Filters map[query.Field]string
	// Search lists the columns matched by the free-text "search" filter.
	Search []string
	// FeaturedColumn is empty when the entity has no featured flag.
	FeaturedColumn string
	Order          []query.Order
	DefaultLimit   int
	// Duplicate is the conflict message for a unique violation on write.
	Duplicate string
}

// Predicates turns a Filter into the table's predicate list. Inactive rows
// are excluded unless f.IncludeInactive is set.
func (t Table) Predicates(f query.Filter) []query.Predicate {
	var preds []query.Predicate
	if !f.IncludeInactive {
		preds = append(preds, query.Equal(ActiveColumn, true))
	}
	for _, field := range []query.Field{query.FieldStatus, query.FieldCategory, query.FieldType, query.FieldAuthor, query.FieldRole} {
		col, ok := t.Filters[field]
		if !ok {
			continue
		}
		if v := f.Get(field); v != "" {
			preds = append(preds, query.Equal(col, v))
		}
	}
	if t.FeaturedColumn != "" && f.Featured != nil {
		preds = append(preds, query.Equal(t.FeaturedColumn, *f.Featured))
	}
	if f.Search != "" && len(t.Search) > 0 {
		preds = append(preds, query.Contains(f.Search, t.Search...))
	}
	return preds
}

// Builder returns a query builder for the filter's window.
func (t Table) Builder(f query.Filter) *query.Builder {
	return query.Select(t.Name, t.Columns...).
		Where(t.Predicates(f)...).
		OrderBy(t.Order...).
		Window(f.Limit, f.Offset())
}
