// Package reconcile joins the scan ledger against normalized expected
// shipment lines and classifies every line as short, overage, or match.
package reconcile

import (
	"sort"

	"partsrecv/internal/feed"
	"partsrecv/internal/ledger"
)

// Status values, ordered by operator urgency.
const (
	StatusShort   = "short"
	StatusOverage = "overage"
	StatusMatch   = "match"
)

// ScopeAll reconciles across every shipment instead of a single one.
const ScopeAll = "all"

// Result is one classified reconciliation line. Derived on every query,
// never persisted.
type Result struct {
	PartNumber    string `json:"partNumber"`
	PartOrdered   string `json:"partOrdered"`
	Superseded    bool   `json:"superseded"`
	ExpectedQty   int    `json:"expectedQty"`
	ScannedQty    int    `json:"scannedQty"`
	QtyDiff       int    `json:"qtyDiff"`
	ShippingOrder string `json:"shippingOrder"`
	Facility      string `json:"facility"`
	Status        string `json:"status"`
	WrongDealer   bool   `json:"wrongDealer"`
	DealerCode    string `json:"dealerCode,omitempty"`
	DamageClaim   bool   `json:"dipp,omitempty"`
}

// Summary counts results per status.
type Summary struct {
	Matches  int `json:"matches"`
	Shorts   int `json:"shorts"`
	Overages int `json:"overages"`
}

func statusRank(s string) int {
	switch s {
	case StatusShort:
		return 0
	case StatusOverage:
		return 1
	case StatusMatch:
		return 2
	default:
		return 3
	}
}

// Reconcile joins the scanned entries against the expected lines for the
// given shipment scope.
//
// Only lines with status "Shipped" participate. Each line resolves to its
// effective part number and consumes at most one ledger entry; when scope
// is a single shipment the entry's shipping order must also match; with
// scope "all" matching is by part number alone, so entries sharing a part
// across shipments can pair with either line. Expected lines with no
// entry become synthetic shorts, unconsumed entries in scope become
// synthetic overages, and the result is sorted shorts first, then overages,
// then matches, part number ascending within each band.
func Reconcile(entries []*ledger.Entry, lines []feed.ShipmentLine, scope string) []Result {
	var results []Result
	consumed := make(map[string]bool)

	for i := range lines {
		line := &lines[i]
		if line.Status != feed.StatusShipped {
			continue
		}
		if scope != ScopeAll && line.ShipmentNo != scope {
			continue
		}
		part := line.EffectivePart()
		entry := findEntry(entries, consumed, part, line.ShipmentNo, scope)
		if entry != nil {
			consumed[entry.ID] = true
			diff := entry.Quantity - line.QtyProcessed
			results = append(results, Result{
				PartNumber:    part,
				PartOrdered:   line.PartOrdered,
				Superseded:    line.Superseded,
				ExpectedQty:   line.QtyProcessed,
				ScannedQty:    entry.Quantity,
				QtyDiff:       diff,
				ShippingOrder: line.ShipmentNo,
				Facility:      line.Facility,
				Status:        classify(diff),
				WrongDealer:   entry.WrongDealer,
				DealerCode:    entry.DealerCode,
				DamageClaim:   entry.DamageClaim,
			})
			continue
		}
		results = append(results, Result{
			PartNumber:    part,
			PartOrdered:   line.PartOrdered,
			Superseded:    line.Superseded,
			ExpectedQty:   line.QtyProcessed,
			ScannedQty:    0,
			QtyDiff:       -line.QtyProcessed,
			ShippingOrder: line.ShipmentNo,
			Facility:      line.Facility,
			Status:        StatusShort,
		})
	}

	// Anything scanned but never consumed is an unexpected arrival.
	for _, e := range entries {
		if consumed[e.ID] {
			continue
		}
		if scope != ScopeAll && e.ShippingOrder != scope {
			continue
		}
		results = append(results, Result{
			PartNumber:    e.PartNumber,
			PartOrdered:   e.PartNumber,
			ExpectedQty:   0,
			ScannedQty:    e.Quantity,
			QtyDiff:       e.Quantity,
			ShippingOrder: e.ShippingOrder,
			Facility:      e.PDC,
			Status:        StatusOverage,
			WrongDealer:   e.WrongDealer,
			DealerCode:    e.DealerCode,
			DamageClaim:   e.DamageClaim,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := statusRank(results[i].Status), statusRank(results[j].Status)
		if ri != rj {
			return ri < rj
		}
		return results[i].PartNumber < results[j].PartNumber
	})
	return results
}

// Summarize counts the results per status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusMatch:
			s.Matches++
		case StatusShort:
			s.Shorts++
		case StatusOverage:
			s.Overages++
		}
	}
	return s
}

// Shorts returns the short results that had a nonzero expectation, the set
// reported on the reconciliation form.
func Shorts(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Status == StatusShort && r.ExpectedQty > 0 {
			out = append(out, r)
		}
	}
	return out
}

// ShipmentNumbers returns the sorted union of feed shipment numbers and
// scanned shipping orders, the scope choices offered to the operator.
func ShipmentNumbers(entries []*ledger.Entry, lines []feed.ShipmentLine) []string {
	seen := make(map[string]struct{})
	for _, l := range lines {
		if l.ShipmentNo != "" {
			seen[l.ShipmentNo] = struct{}{}
		}
	}
	for _, e := range entries {
		if e.ShippingOrder != "" {
			seen[e.ShippingOrder] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func classify(diff int) string {
	switch {
	case diff == 0:
		return StatusMatch
	case diff > 0:
		return StatusOverage
	default:
		return StatusShort
	}
}

func findEntry(entries []*ledger.Entry, consumed map[string]bool, part, shipmentNo, scope string) *ledger.Entry {
	for _, e := range entries {
		if consumed[e.ID] || e.PartNumber != part {
			continue
		}
		if scope != ScopeAll && e.ShippingOrder != shipmentNo {
			continue
		}
		return e
	}
	return nil
}
