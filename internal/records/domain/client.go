package domain

import (
	"errors"
	"time"
)

// DateLayout is the wire and storage format of a date of birth.
const DateLayout = "2006-01-02"

var ErrInvalidDOB = errors.New("dob must be a valid YYYY-MM-DD date not in the future")

// Client is an identity record. ID is assigned by the store and never changes.
type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Address     string    `json:"address,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	DOB         string    `json:"dob,omitempty"`
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ClientFilter constrains a client query. Zero-valued fields do not
// constrain. BornOnOrBefore and BornAfter are inclusive/exclusive DOB bounds
// in DateLayout; clients without a DOB never match either bound.
type ClientFilter struct {
	ID             string
	Name           string
	Address        string
	PostalCode     string
	Phone          string
	Email          string
	BornOnOrBefore string
	BornAfter      string
}

// ClientPatch carries the fields a partial update sets. Nil fields are left
// untouched; a pointer to "" clears the field.
type ClientPatch struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	DOB        *string `json:"dob,omitempty"`
}

func (p ClientPatch) Validate(now time.Time) error {
	if p.DOB != nil && *p.DOB != "" {
		return ValidateDOB(*p.DOB, now)
	}
	return nil
}

// ValidateDOB checks s is a calendar date in DateLayout that is not after now.
func ValidateDOB(s string, now time.Time) error {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return ErrInvalidDOB
	}
	if d.After(now) {
		return ErrInvalidDOB
	}
	return nil
}

// AgeBounds converts the minage/maxage query parameters into DOB bounds.
// A client is at least minAge years old when born on or before now-minAge
// years, and at most maxAge years old when born after now-(maxAge+1) years.
// Negative ages leave the corresponding bound unset.
func AgeBounds(now time.Time, minAge, maxAge int) (onOrBefore, after string) {
	if minAge >= 0 {
		onOrBefore = now.AddDate(-minAge, 0, 0).Format(DateLayout)
	}
	if maxAge >= 0 {
		after = now.AddDate(-(maxAge + 1), 0, 0).Format(DateLayout)
	}
	return onOrBefore, after
}
