package models

import (
	"encoding/json"
	"time"
)

// Registration status values stored on a cache entry. Presence of any
// upstream domain-status flag maps to Active; everything else is Unknown.
const (
	StatusActive  = "Active"
	StatusUnknown = "Unknown"
)

// UnknownDate is the sentinel stored when the lookup response carries no
// usable date. Consumers must treat it as "no expiry information".
const UnknownDate = "N/A"

// Entry is one row of the shared registration cache, keyed uniquely by
// domain name. The refresh engine is its sole writer: created on first
// successful refresh, overwritten in place on every subsequent one, never
// deleted.
type Entry struct {
	Name        string
	CreatedDate string
	ExpiryDate  string
	Registrar   string
	Status      string
	FullDetails json.RawMessage
	LastUpdated time.Time
}
