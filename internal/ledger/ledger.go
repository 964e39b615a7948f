// Package ledger accumulates decoded shipment labels into an ordered,
// deduplicating scan ledger. Entries are keyed by (part number, shipping
// order); repeated scans of the same key bump the quantity instead of
// creating a new row.
package ledger

import (
	"sort"

	"github.com/google/uuid"

	"partsrecv/internal/barcode"
)

// Entry is one accumulated scan line. Quantity starts at 1 and never drops
// below 1 through the adjustment controls.
type Entry struct {
	ID            string   `json:"id"`
	PartNumber    string   `json:"partNumber"`
	ShippingOrder string   `json:"shippingOrder"`
	PDC           string   `json:"pdc"`
	DealerCode    string   `json:"dealerCode"`
	Origin        string   `json:"type"`
	WrongDealer   bool     `json:"wrongDealer"`
	Quantity      int      `json:"quantity"`
	Scans         []string `json:"scans"`
	DamageClaim   bool     `json:"dipp"`
}

// Key returns the dedup key of the entry.
func (e *Entry) Key() string {
	return e.PartNumber + "|" + e.ShippingOrder
}

// Stats is the aggregate view shown in the session header.
type Stats struct {
	TotalQuantity     int `json:"total"`
	UniqueCount       int `json:"unique"`
	WrongDealerCount  int `json:"wrongDealer"`
	DamageClaimCount  int `json:"damageClaims"`
	DistinctShipments int `json:"shippingOrders"`
}

// Ledger holds the session's scan entries in append order. It is owned by a
// single session and is not safe for concurrent use; cross-session sharing
// goes through replication snapshots (see Merge).
type Ledger struct {
	entries []*Entry
	lastID  string // most recently created entry, target of quantity overrides
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Entries returns the live entry slice in append order. Callers must not
// reorder it; copies for display sorting belong to the caller.
func (l *Ledger) Entries() []*Entry {
	return l.entries
}

// Len returns the number of distinct entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// AddLabel folds a decoded label into the ledger. An existing entry with
// the same (part, shipping order) key gains quantity and scan history; a
// new key appends a fresh entry with quantity 1.
func (l *Ledger) AddLabel(lbl *barcode.Label) *Entry {
	for _, e := range l.entries {
		if e.PartNumber == lbl.PartNumber && e.ShippingOrder == lbl.ShippingOrder {
			e.Quantity++
			e.Scans = append(e.Scans, lbl.Raw)
			return e
		}
	}
	e := &Entry{
		ID:            uuid.NewString(),
		PartNumber:    lbl.PartNumber,
		ShippingOrder: lbl.ShippingOrder,
		PDC:           lbl.PDC,
		DealerCode:    lbl.DealerCode,
		Origin:        lbl.Origin,
		WrongDealer:   lbl.WrongDealer,
		Quantity:      1,
		Scans:         []string{lbl.Raw},
	}
	l.entries = append(l.entries, e)
	l.lastID = e.ID
	return e
}

// ApplyQuantityOverride sets the quantity of the most recently created
// entry to n (absolute). The target is tracked by id, not slice position,
// so display-order sorting can never redirect an override. Returns nil
// when there is no tracked entry, including after it was deleted.
func (l *Ledger) ApplyQuantityOverride(n int) *Entry {
	if n < 1 {
		return nil
	}
	target := l.byID(l.lastID)
	if target == nil {
		return nil
	}
	target.Quantity = n
	return target
}

// AdjustQuantity adds delta to an entry's quantity, flooring at 1.
func (l *Ledger) AdjustQuantity(id string, delta int) *Entry {
	e := l.byID(id)
	if e == nil {
		return nil
	}
	e.Quantity += delta
	if e.Quantity < 1 {
		e.Quantity = 1
	}
	return e
}

// SetQuantity overwrites an entry's quantity. Values below 1 are rejected.
func (l *Ledger) SetQuantity(id string, n int) *Entry {
	if n < 1 {
		return nil
	}
	e := l.byID(id)
	if e == nil {
		return nil
	}
	e.Quantity = n
	return e
}

// ToggleDamageClaim flips the DIPP flag on an entry.
func (l *Ledger) ToggleDamageClaim(id string) *Entry {
	e := l.byID(id)
	if e == nil {
		return nil
	}
	e.DamageClaim = !e.DamageClaim
	return e
}

// Delete removes an entry. Reports whether anything was removed. Deleting
// the override target stops tracking it; the next quantity scan needs a
// fresh label first.
func (l *Ledger) Delete(id string) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			if l.lastID == id {
				l.lastID = ""
			}
			return true
		}
	}
	return false
}

// Clear removes every entry.
func (l *Ledger) Clear() {
	l.entries = nil
	l.lastID = ""
}

// WrongDealerEntries returns entries flagged as belonging to another dealer.
func (l *Ledger) WrongDealerEntries() []*Entry {
	var out []*Entry
	for _, e := range l.entries {
		if e.WrongDealer {
			out = append(out, e)
		}
	}
	return out
}

// DamageClaimEntries returns entries flagged for a DIPP claim.
func (l *Ledger) DamageClaimEntries() []*Entry {
	var out []*Entry
	for _, e := range l.entries {
		if e.DamageClaim {
			out = append(out, e)
		}
	}
	return out
}

// Stats computes the aggregate counters.
func (l *Ledger) Stats() Stats {
	s := Stats{UniqueCount: len(l.entries)}
	orders := make(map[string]struct{})
	for _, e := range l.entries {
		s.TotalQuantity += e.Quantity
		if e.WrongDealer {
			s.WrongDealerCount++
		}
		if e.DamageClaim {
			s.DamageClaimCount++
		}
		orders[e.ShippingOrder] = struct{}{}
	}
	s.DistinctShipments = len(orders)
	return s
}

// ShippingOrders returns the sorted distinct shipping orders present.
func (l *Ledger) ShippingOrders() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range l.entries {
		if e.ShippingOrder == "" {
			continue
		}
		if _, ok := seen[e.ShippingOrder]; !ok {
			seen[e.ShippingOrder] = struct{}{}
			out = append(out, e.ShippingOrder)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a deep copy of the entries, safe to hand to the
// replication client or a render/export call.
func (l *Ledger) Snapshot() []*Entry {
	out := make([]*Entry, len(l.entries))
	for i, e := range l.entries {
		c := *e
		c.Scans = append([]string(nil), e.Scans...)
		out[i] = &c
	}
	return out
}

// Replace swaps the ledger contents with the given entries (used when
// loading a persisted session).
func (l *Ledger) Replace(entries []*Entry) {
	l.entries = entries
	l.lastID = ""
	if n := len(entries); n > 0 {
		l.lastID = entries[n-1].ID
	}
}

func (l *Ledger) byID(id string) *Entry {
	for _, e := range l.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}
