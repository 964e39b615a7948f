package models

import "time"

// Dealer is one known-dealer directory row, used to identify wrong-dealer
// scans and to CC the owning dealership on the form email.
type Dealer struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code      string    `json:"code" gorm:"size:6;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Contact   string    `json:"contact" gorm:"size:128"`
	Email     string    `json:"email" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Dealer.
func (Dealer) TableName() string {
	return "dealers"
}

// SyncState holds the monotonic version counter for the shared scan store.
// A single row with ID 1 exists per database.
type SyncState struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Version   uint64    `json:"version" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SyncState.
func (SyncState) TableName() string {
	return "sync_state"
}
