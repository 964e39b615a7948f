package models

import (
	"encoding/json"
	"time"

	"partsrecv/internal/ledger"
)

// ScanRecord is the persisted form of a ledger entry in the shared scan
// store. Raw scan history is stored as a JSON array so the store schema
// stays flat.
type ScanRecord struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Position      int       `json:"-" gorm:"not null;index"`
	PartNumber    string    `json:"partNumber" gorm:"size:8;not null;index:idx_scan_key"`
	ShippingOrder string    `json:"shippingOrder" gorm:"size:7;not null;index:idx_scan_key"`
	PDC           string    `json:"pdc" gorm:"size:3"`
	DealerCode    string    `json:"dealerCode" gorm:"size:6"`
	Origin        string    `json:"type" gorm:"size:2"`
	WrongDealer   bool      `json:"wrongDealer"`
	Quantity      int       `json:"quantity" gorm:"not null;default:1"`
	ScanHistory   string    `json:"-" gorm:"type:text"`
	DamageClaim   bool      `json:"dipp"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ScanRecord.
func (ScanRecord) TableName() string {
	return "scan_records"
}

// FromEntry converts a ledger entry into its persisted form.
func FromEntry(e *ledger.Entry, position int) ScanRecord {
	history, _ := json.Marshal(e.Scans)
	return ScanRecord{
		ID:            e.ID,
		Position:      position,
		PartNumber:    e.PartNumber,
		ShippingOrder: e.ShippingOrder,
		PDC:           e.PDC,
		DealerCode:    e.DealerCode,
		Origin:        e.Origin,
		WrongDealer:   e.WrongDealer,
		Quantity:      e.Quantity,
		ScanHistory:   string(history),
		DamageClaim:   e.DamageClaim,
	}
}

// ToEntry converts the persisted record back into a ledger entry.
func (r *ScanRecord) ToEntry() *ledger.Entry {
	var scans []string
	if r.ScanHistory != "" {
		_ = json.Unmarshal([]byte(r.ScanHistory), &scans)
	}
	return &ledger.Entry{
		ID:            r.ID,
		PartNumber:    r.PartNumber,
		ShippingOrder: r.ShippingOrder,
		PDC:           r.PDC,
		DealerCode:    r.DealerCode,
		Origin:        r.Origin,
		WrongDealer:   r.WrongDealer,
		Quantity:      r.Quantity,
		Scans:         scans,
		DamageClaim:   r.DamageClaim,
	}
}
