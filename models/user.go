package models

import "time"

// User is the persistent ledger record. Wealth survives across rooms and
// sessions; CumulativeScore sums net match results. AccountID is an
// optional external identity; when present it wins over Name as the
// ledger key.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex" json:"name"`
	AccountID       string    `gorm:"index" json:"account_id"`
	Wealth          int64     `json:"wealth"`
	CumulativeScore int64     `json:"cumulative_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
