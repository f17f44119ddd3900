package models

// Kind distinguishes the two alert paths. They are reported in separate
// emails but summed for SMS.
type Kind string

const (
	KindDomainExpiry      Kind = "DomainExpiry"
	KindCertificateExpiry Kind = "CertificateExpiry"
)

// Item is one expiring domain or certificate inside the 30-day window.
// Built per user per cycle and discarded after dispatch.
type Item struct {
	DomainName    string
	DaysRemaining int
	ExpiryDate    string
	Kind          Kind
}

// Alerts is the aggregator output for one user.
type Alerts struct {
	ExpiringDomains      []Item
	ExpiringCertificates []Item
}

// Empty reports whether there is nothing to dispatch.
func (a Alerts) Empty() bool {
	return len(a.ExpiringDomains) == 0 && len(a.ExpiringCertificates) == 0
}

// Total is the combined count used for the SMS summary.
func (a Alerts) Total() int {
	return len(a.ExpiringDomains) + len(a.ExpiringCertificates)
}

// Preference is the per-user notification preference read by the
// dispatcher. The core treats it as read-only input.
type Preference struct {
	EmailEnabled bool
	SMSEnabled   bool
	ContactEmail string
	ContactPhone string
}
