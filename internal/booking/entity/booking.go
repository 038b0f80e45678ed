package entity

import (
	"fmt"
	"time"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/query"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
)

// DateLayout is the wire and storage form of a preferred date.
const DateLayout = "2006-01-02"

// Date is a calendar day, serialized as YYYY-MM-DD.
type Date struct{ time.Time }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = v
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("date: cannot scan %T", src)
	}
	return nil
}

func (d *Date) parse(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Booking is a consultation request.
type Booking struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	ServiceType   string    `db:"service_type" json:"service_type"`
	PreferredDate Date      `db:"preferred_date" json:"preferred_date"`
	PreferredTime string    `db:"preferred_time" json:"preferred_time"`
	Message       string    `db:"message" json:"message"`
	Status        string    `db:"status" json:"status"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var Statuses = []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

type Input struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	ServiceType   *string `json:"service_type"`
	PreferredDate *string `json:"preferred_date"`
	PreferredTime *string `json:"preferred_time"`
	Message       *string `json:"message"`
	Status        *string `json:"status"`
}

var Table = resource.Table{
	Name: "bookings",
	Columns: []string{
		"id", "name", "email", "phone", "service_type", "preferred_date", "preferred_time",
		"message", "status", "is_active", "created_at", "updated_at",
	},
	Filters: map[query.Field]string{
		query.FieldStatus: "status",
		query.FieldType:   "service_type",
	},
	Search:       []string{"name", "email", "service_type", "message"},
	Order:        []query.Order{query.Desc("created_at")},
	DefaultLimit: 20,
}
