package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// Touch stamps the audit fields for a create or update performed by actorID.
func (a *AuditFields) Touch(actorID string, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = actorID
	}
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actorID
}
