// Package feed ingests PWB+ purchase-order exports (XLSX files or pasted
// CSV) and normalizes their rows into canonical shipment lines.
package feed

import (
	"strconv"
	"strings"
)

// PWB+ export column headers. The mapping lives here as an adapter; the
// rest of the system only sees ShipmentLine.
const (
	colStatus        = "Current Status"
	colPartOrdered   = "Part No. Ordered"
	colPartProcessed = "Part No. Processed"
	colFacility      = "Facility"
	colQtyOrdered    = "Qty Ordered"
	colQtyProcessed  = "Qty Proc."
	colShipmentNo    = "Shipment No."
)

// StatusShipped is the only feed status the reconciliation engine considers.
const StatusShipped = "Shipped"

// ShipmentLine is one normalized expected-shipment row. Immutable once
// produced; a re-imported feed replaces the whole set.
type ShipmentLine struct {
	Status        string `json:"status"`
	PartOrdered   string `json:"partOrdered"`
	PartProcessed string `json:"partProcessed"`
	Facility      string `json:"facility"`
	QtyOrdered    int    `json:"qtyOrdered"`
	QtyProcessed  int    `json:"qtyProc"`
	ShipmentNo    string `json:"shipmentNo"`
	Superseded    bool   `json:"superseded"`
}

// EffectivePart returns the part number the dealer actually received:
// the processed part when a supersession occurred, the ordered one
// otherwise.
func (s *ShipmentLine) EffectivePart() string {
	if s.PartProcessed != "" {
		return s.PartProcessed
	}
	return s.PartOrdered
}

// Normalize maps raw feed rows to shipment lines. No row is rejected:
// malformed quantities default to 0 and missing columns to empty strings,
// so a mangled spreadsheet still yields a partial reconciliation instead
// of a failed import.
func Normalize(rows []map[string]string) []ShipmentLine {
	out := make([]ShipmentLine, 0, len(rows))
	for _, row := range rows {
		ordered := stripSpace(row[colPartOrdered])
		processed := stripSpace(row[colPartProcessed])
		out = append(out, ShipmentLine{
			Status:        row[colStatus],
			PartOrdered:   ordered,
			PartProcessed: processed,
			Facility:      row[colFacility],
			QtyOrdered:    toInt(row[colQtyOrdered]),
			QtyProcessed:  toInt(row[colQtyProcessed]),
			ShipmentNo:    stripSpace(row[colShipmentNo]),
			Superseded:    ordered != processed,
		})
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

func toInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
