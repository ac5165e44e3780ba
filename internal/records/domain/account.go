package domain

import "time"

// Account is a financial record owned by one Client. ClientID is a lookup key
// only; the store does not enforce it after creation. Number is unique and
// immutable.
type Account struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"cid"`
	Number      string    `json:"number"`
	Type        string    `json:"type,omitempty"`
	Status      string    `json:"status,omitempty"`
	Created     time.Time `json:"created"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type AccountFilter struct {
	ClientID string
	Number   string
	Type     string
	Status   string
}

// AccountPatch carries the mutable account fields. Number and ClientID are
// not patchable.
type AccountPatch struct {
	Type   *string `json:"type,omitempty"`
	Status *string `json:"status,omitempty"`
}
