package models

import (
	"time"

	"github.com/google/uuid"

	alertmodels "domainwatch/internal/alerts/models"
)

// User is an account able to own domains and receive expiry notifications.
type User struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	PasswordHash       string
	EmailNotifications bool
	SMSNotifications   bool
	Phone              string
	CreatedAt          time.Time
}

// Preference projects the user's notification settings into the read-only
// shape the dispatcher consumes.
func (u *User) Preference() alertmodels.Preference {
	return alertmodels.Preference{
		EmailEnabled: u.EmailNotifications,
		SMSEnabled:   u.SMSNotifications,
		ContactEmail: u.Email,
		ContactPhone: u.Phone,
	}
}

// PendingRegistration is the registration payload held behind a one-time
// code until the email is verified. Password is the bcrypt hash, never the
// plaintext.
type PendingRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
