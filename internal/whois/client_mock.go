package whois

import (
	"context"
	"encoding/json"
	"time"
)

// MockClient returns deterministic registration data with a configurable
// latency to mimic real-world calls. Used in dev wiring and service tests.
type MockClient struct {
	Latency time.Duration
}

func (c MockClient) Lookup(_ context.Context, domain string) (Record, error) {
	time.Sleep(c.Latency)
	record := Record{
		Status:           1,
		DomainRegistered: "yes",
		CreateDate:       "2001-05-14",
		ExpiryDate:       time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
		Registrar:        RegistrarInfo{RegistrarName: "Sample Registrar Inc."},
		DomainStatus:     []string{"clientTransferProhibited"},
	}
	record.Raw, _ = json.Marshal(map[string]string{"domain_name": domain})
	return record, nil
}
