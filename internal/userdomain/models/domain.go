package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Domain is a user-owned domain row. Registration details are captured at
// save time from the lookup service; the expiry aggregator reads them.
type Domain struct {
	ID          int64
	UserID      uuid.UUID
	Name        string
	CreatedDate string
	ExpiryDate  string
	Registrar   string
	Status      string
	FullDetails json.RawMessage
	AddedAt     time.Time
}
