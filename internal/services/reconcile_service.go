package services

import (
	"gorm.io/gorm"

	"partsrecv/internal/reconcile"
)

// ReconcileService joins the stored scan set against an imported purchase
// order's shipment lines.
type ReconcileService struct {
	scans *ScanStore
	feeds *FeedService
}

func NewReconcileService(db *gorm.DB) *ReconcileService {
	return &ReconcileService{scans: NewScanStore(db), feeds: NewFeedService(db)}
}

// Report is one full reconciliation run.
type Report struct {
	Results   []reconcile.Result `json:"results"`
	Summary   reconcile.Summary  `json:"summary"`
	Shipments []string           `json:"shipments"`
	Scope     string             `json:"scope"`
	Version   uint64             `json:"version"`
}

// Run compares the stored scans against the lines of purchase order poID
// (all orders when zero), restricted to the given shipment scope.
func (rs *ReconcileService) Run(poID uint, scope string) (*Report, error) {
	if scope == "" {
		scope = reconcile.ScopeAll
	}
	entries, version, err := rs.scans.FetchScans()
	if err != nil {
		return nil, err
	}
	lines, err := rs.feeds.Lines(poID)
	if err != nil {
		return nil, err
	}
	results := reconcile.Reconcile(entries, lines, scope)
	return &Report{
		Results:   results,
		Summary:   reconcile.Summarize(results),
		Shipments: reconcile.ShipmentNumbers(entries, lines),
		Scope:     scope,
		Version:   version,
	}, nil
}
