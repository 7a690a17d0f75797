package models

import "time"

// AuditRecord is one checked lot from a physical audit submission.
// Append-only history; one record per checked row whether present or not.
type AuditRecord struct {
	ID         int        `json:"id" db:"id"`
	Inventory  string     `json:"inventory" db:"inventory"`
	Location   string     `json:"location" db:"location"`
	Item       string     `json:"item" db:"item"`
	Expiration *time.Time `json:"expiration,omitempty" db:"expiration"`
	Present    bool       `json:"present" db:"present"`
	AuditedAt  time.Time  `json:"audited_at" db:"audited_at"`
	AuditedBy  string     `json:"audited_by" db:"audited_by"`
}
