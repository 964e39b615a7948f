package models

import (
	"time"

	"partsrecv/internal/feed"
)

// PurchaseOrder is one imported PWB+ export, identified by the PBS PO and
// GM control numbers from its filename. Re-importing the same identity
// replaces the whole line set.
type PurchaseOrder struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	PBSPO     string         `json:"pbsPO" gorm:"column:pbs_po;size:32;not null;index:idx_po_identity"`
	GMControl string         `json:"gmControl" gorm:"size:32;index:idx_po_identity"`
	DateStr   string         `json:"dateStr" gorm:"size:32"`
	Filename  string         `json:"filename" gorm:"size:255"`
	Lines     []ShipmentLine `json:"lines,omitempty" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName specifies the table name for PurchaseOrder.
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// ShipmentLine is one persisted normalized feed row.
type ShipmentLine struct {
	ID              uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	PurchaseOrderID uint   `json:"-" gorm:"not null;index"`
	Status          string `json:"status" gorm:"size:32"`
	PartOrdered     string `json:"partOrdered" gorm:"size:16"`
	PartProcessed   string `json:"partProcessed" gorm:"size:16"`
	Facility        string `json:"facility" gorm:"size:16"`
	QtyOrdered      int    `json:"qtyOrdered"`
	QtyProcessed    int    `json:"qtyProc"`
	ShipmentNo      string `json:"shipmentNo" gorm:"size:16;index"`
	Superseded      bool   `json:"superseded"`
}

// TableName specifies the table name for ShipmentLine.
func (ShipmentLine) TableName() string {
	return "shipment_lines"
}

// FromFeedLine converts a normalized feed line into its persisted form.
func FromFeedLine(poID uint, l feed.ShipmentLine) ShipmentLine {
	return ShipmentLine{
		PurchaseOrderID: poID,
		Status:          l.Status,
		PartOrdered:     l.PartOrdered,
		PartProcessed:   l.PartProcessed,
		Facility:        l.Facility,
		QtyOrdered:      l.QtyOrdered,
		QtyProcessed:    l.QtyProcessed,
		ShipmentNo:      l.ShipmentNo,
		Superseded:      l.Superseded,
	}
}

// ToFeedLine converts the persisted row back to the engine shape.
func (s *ShipmentLine) ToFeedLine() feed.ShipmentLine {
	return feed.ShipmentLine{
		Status:        s.Status,
		PartOrdered:   s.PartOrdered,
		PartProcessed: s.PartProcessed,
		Facility:      s.Facility,
		QtyOrdered:    s.QtyOrdered,
		QtyProcessed:  s.QtyProcessed,
		ShipmentNo:    s.ShipmentNo,
		Superseded:    s.Superseded,
	}
}
