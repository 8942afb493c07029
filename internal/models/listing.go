package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Listing statuses. Only active listings are visible to other growers.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusSold     = "sold"
)

// ValidStatus reports whether s is a known listing status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSold:
		return true
	}
	return false
}

// Listing is a crop offered by one grower.
type Listing struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Price         string    `json:"price"`
	Quantity      string    `json:"quantity"`
	HarvestDate   Date      `json:"harvest_date"`
	Zip           string    `json:"zip"`
	GrowingMethod *string   `json:"growing_method"`
	Notes         *string   `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	GrowerName    string    `json:"grower_name,omitempty"`
}

// NewListing is the validated input for a listing insert.
type NewListing struct {
	UserID        int64
	Title         string
	Price         string
	Quantity      string
	HarvestDate   Date
	Zip           string
	GrowingMethod *string
	Notes         *string
}

// CreateCropRequest is the JSON body for POST /api/crops.
type CreateCropRequest struct {
	Title         string    `json:"title"`
	Price         string    `json:"price"`
	Quantity      string    `json:"quantity"`
	HarvestDate   string    `json:"harvestDate"`
	Zip           ZipString `json:"zip"`
	GrowingMethod string    `json:"growingMethod"`
	Notes         string    `json:"notes"`
}

// UpdateStatusRequest is the JSON body for PATCH /api/crops/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListingDetail is returned by GET /api/crops/{id}.
type ListingDetail struct {
	Crop   Listing `json:"crop"`
	Grower Grower  `json:"grower"`
}

// ContactReveal is returned by POST /api/crops/{id}/reveal-contact.
type ContactReveal struct {
	ListingID   int64  `json:"listing_id"`
	ContactText string `json:"contactText"`
}

// Browse modes.
const (
	BrowseByZip   = "zip"
	BrowseByTitle = "title"
)

// BrowseResult echoes the key that was actually searched.
type BrowseResult struct {
	Mode     string    `json:"mode"`
	Query    string    `json:"query"`
	Listings []Listing `json:"listings"`
}

// Profile is returned by GET /api/profile.
type Profile struct {
	Account  *Account  `json:"user"`
	Listings []Listing `json:"listings"`
}

// GrowerCard is a grower's directory entry.
type GrowerCard struct {
	Grower
	InventoryUpdatedAt *time.Time `json:"inventory_updated_at"`
}

// GrowerPage is returned by GET /api/growers/{ref}.
type GrowerPage struct {
	Grower   GrowerCard `json:"grower"`
	Listings []Listing  `json:"listings"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day. It reads and writes Postgres
// DATE columns and marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ScanDate implements pgtype.DateScanner.
func (d *Date) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		*d = Date{}
		return nil
	}
	if v.InfinityModifier != pgtype.Finite {
		return errors.New("infinite harvest date")
	}
	*d = Date{Time: v.Time}
	return nil
}

// DateValue implements pgtype.DateValuer.
func (d Date) DateValue() (pgtype.Date, error) {
	if d.IsZero() {
		return pgtype.Date{}, nil
	}
	return pgtype.Date{Time: d.Time, Valid: true}, nil
}
