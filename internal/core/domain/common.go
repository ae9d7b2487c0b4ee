package domain

import "time"

// AuditFields holds the bookkeeping timestamps stored alongside mutable entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
