package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Account represents a row in the accounts table (a grower).
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialize
	Name         string    `json:"name"`
	Zip          string    `json:"zip"`
	Blurb        *string   `json:"blurb"`
	Contact      *string   `json:"contact"`
	CreatedAt    time.Time `json:"created_at"`
}

// Grower is the public subset of an account shown next to a listing.
// It never carries contact details.
type Grower struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Zip   string  `json:"zip"`
	Blurb *string `json:"blurb"`
}

// Public strips everything but the public grower fields.
func (a *Account) Public() Grower {
	return Grower{ID: a.ID, Name: a.Name, Zip: a.Zip, Blurb: a.Blurb}
}

// NewAccount is what the auth handler hands to the store on registration.
type NewAccount struct {
	Email        string
	PasswordHash string
	Name         string
	Zip          string
	Blurb        *string
	Contact      *string
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Zip      ZipString `json:"zip"`
	Contact  string    `json:"contact"`
	Blurb    string    `json:"blurb"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the payload bound to a session token.
type Session struct {
	ID        string    `json:"-"`
	AccountID int64     `json:"account_id"`
	Email     string    `json:"email"`
	Expire    time.Time `json:"-"`
}

// ZipString accepts a ZIP code sent either as a JSON string or a JSON
// integer. Integers are zero-padded to five digits.
type ZipString string

func (z *ZipString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*z = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*z = ZipString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("zip: %w", err)
	}
	i, err := n.Int64()
	if err != nil || i < 0 {
		// leave it to validation to reject
		*z = ZipString(n.String())
		return nil
	}
	if i <= 99999 {
		*z = ZipString(fmt.Sprintf("%05d", i))
	} else {
		*z = ZipString(fmt.Sprintf("%d", i))
	}
	return nil
}
