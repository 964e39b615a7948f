package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsrecv/internal/feed"
	"partsrecv/internal/ledger"
)

func shippedLine(part string, qty int, shipment string) feed.ShipmentLine {
	return feed.ShipmentLine{
		Status:        feed.StatusShipped,
		PartOrdered:   part,
		PartProcessed: part,
		QtyProcessed:  qty,
		ShipmentNo:    shipment,
	}
}

func entry(id, part, so string, qty int) *ledger.Entry {
	return &ledger.Entry{ID: id, PartNumber: part, ShippingOrder: so, Quantity: qty}
}

func TestReconcileMatch(t *testing.T) {
	lines := []feed.ShipmentLine{shippedLine("12345678", 3, "1234567")}
	entries := []*ledger.Entry{entry("a", "12345678", "1234567", 3)}

	results := Reconcile(entries, lines, "1234567")
	require.Len(t, results, 1)
	assert.Equal(t, StatusMatch, results[0].Status)
	assert.Equal(t, 0, results[0].QtyDiff)
	assert.Equal(t, 3, results[0].ScannedQty)
}

func TestReconcileOverage(t *testing.T) {
	lines := []feed.ShipmentLine{shippedLine("12345678", 3, "1234567")}
	entries := []*ledger.Entry{entry("a", "12345678", "1234567", 5)}

	results := Reconcile(entries, lines, "1234567")
	require.Len(t, results, 1)
	assert.Equal(t, StatusOverage, results[0].Status)
	assert.Equal(t, 2, results[0].QtyDiff)
}

func TestReconcileSyntheticShort(t *testing.T) {
	lines := []feed.ShipmentLine{shippedLine("12345678", 3, "1234567")}

	results := Reconcile(nil, lines, ScopeAll)
	require.Len(t, results, 1)
	assert.Equal(t, StatusShort, results[0].Status)
	assert.Equal(t, 0, results[0].ScannedQty)
	assert.Equal(t, -3, results[0].QtyDiff)
	assert.False(t, results[0].WrongDealer)
}

func TestReconcileUnexpectedScanIsOverage(t *testing.T) {
	entries := []*ledger.Entry{entry("a", "99990000", "7654321", 2)}

	results := Reconcile(entries, nil, ScopeAll)
	require.Len(t, results, 1)
	assert.Equal(t, StatusOverage, results[0].Status)
	assert.Equal(t, 0, results[0].ExpectedQty)
	assert.Equal(t, 2, results[0].QtyDiff)
}

func TestReconcileIgnoresUnshippedAndOutOfScope(t *testing.T) {
	lines := []feed.ShipmentLine{
		{Status: "In Process", PartOrdered: "11111111", QtyProcessed: 1, ShipmentNo: "1111111"},
		shippedLine("22222222", 1, "2222222"),
		shippedLine("33333333", 1, "3333333"),
	}
	entries := []*ledger.Entry{entry("x", "44444444", "9999999", 1)}

	results := Reconcile(entries, lines, "2222222")
	// One in-scope expected line; the out-of-scope scan is excluded too.
	require.Len(t, results, 1)
	assert.Equal(t, "22222222", results[0].PartNumber)
}

func TestReconcileSupersession(t *testing.T) {
	line := feed.ShipmentLine{
		Status:        feed.StatusShipped,
		PartOrdered:   "11111111",
		PartProcessed: "22222222",
		QtyProcessed:  1,
		ShipmentNo:    "1234567",
		Superseded:    true,
	}
	entries := []*ledger.Entry{entry("a", "22222222", "1234567", 1)}

	results := Reconcile(entries, []feed.ShipmentLine{line}, "1234567")
	require.Len(t, results, 1)
	assert.Equal(t, "22222222", results[0].PartNumber)
	assert.Equal(t, "11111111", results[0].PartOrdered)
	assert.True(t, results[0].Superseded)
	assert.Equal(t, StatusMatch, results[0].Status)
}

func TestReconcileCompleteness(t *testing.T) {
	lines := []feed.ShipmentLine{
		shippedLine("AAAA0000", 1, "1111111"),
		shippedLine("BBBB0000", 2, "1111111"),
	}
	entries := []*ledger.Entry{
		entry("a", "AAAA0000", "1111111", 1),
		entry("b", "CCCC0000", "1111111", 1),
	}

	results := Reconcile(entries, lines, ScopeAll)
	// Every shipped line and every entry appears exactly once.
	assert.Len(t, results, 3)
}

func TestReconcileSortOrder(t *testing.T) {
	lines := []feed.ShipmentLine{
		shippedLine("ZZZZ0000", 1, "1111111"), // match
		shippedLine("AAAA0000", 1, "1111111"), // short
		shippedLine("MMMM0000", 1, "1111111"), // overage
		shippedLine("BBBB0000", 1, "1111111"), // short
	}
	entries := []*ledger.Entry{
		entry("z", "ZZZZ0000", "1111111", 1),
		entry("m", "MMMM0000", "1111111", 3),
	}

	results := Reconcile(entries, lines, ScopeAll)
	require.Len(t, results, 4)
	statuses := []string{results[0].Status, results[1].Status, results[2].Status, results[3].Status}
	assert.Equal(t, []string{StatusShort, StatusShort, StatusOverage, StatusMatch}, statuses)
	// Within equal status, part numbers ascend.
	assert.Equal(t, "AAAA0000", results[0].PartNumber)
	assert.Equal(t, "BBBB0000", results[1].PartNumber)
}

// Pins the original cross-shipment pairing in "all" scope: matching is by
// part number alone, so an entry from another shipment can satisfy the
// line. Changing this would change observable output for multi-shipment
// dealers.
func TestReconcileAllScopeMatchesByPartOnly(t *testing.T) {
	lines := []feed.ShipmentLine{shippedLine("12345678", 2, "1111111")}
	entries := []*ledger.Entry{entry("a", "12345678", "2222222", 2)}

	results := Reconcile(entries, lines, ScopeAll)
	require.Len(t, results, 1)
	assert.Equal(t, StatusMatch, results[0].Status)

	// The same pair under a concrete scope stays split short/overage.
	split := Reconcile(entries, lines, "1111111")
	require.Len(t, split, 1)
	assert.Equal(t, StatusShort, split[0].Status)
}

func TestSummarizeAndShorts(t *testing.T) {
	results := []Result{
		{Status: StatusShort, ExpectedQty: 3},
		{Status: StatusShort, ExpectedQty: 0},
		{Status: StatusOverage},
		{Status: StatusMatch},
	}
	s := Summarize(results)
	assert.Equal(t, 2, s.Shorts)
	assert.Equal(t, 1, s.Overages)
	assert.Equal(t, 1, s.Matches)

	shorts := Shorts(results)
	require.Len(t, shorts, 1)
	assert.Equal(t, 3, shorts[0].ExpectedQty)
}

func TestShipmentNumbers(t *testing.T) {
	lines := []feed.ShipmentLine{shippedLine("A", 1, "2222222"), shippedLine("B", 1, "")}
	entries := []*ledger.Entry{entry("a", "A", "1111111", 1)}
	assert.Equal(t, []string{"1111111", "2222222"}, ShipmentNumbers(entries, lines))
}
