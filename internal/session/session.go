// Package session ties the classifier, assembler, and ledger together into
// one scan session. Each scanner or workstation instance owns exactly one
// Session; there is no shared mutable state between sessions other than
// replication snapshots.
package session

import (
	"fmt"
	"strings"

	"partsrecv/internal/barcode"
	"partsrecv/internal/config"
	"partsrecv/internal/ledger"
)

// Feedback kinds shown to the operator after a scan.
const (
	FeedbackAdded       = "added"
	FeedbackQuantity    = "quantity"
	FeedbackPending     = "pending"
	FeedbackRescan      = "rescan"
	FeedbackWrongDealer = "wrong_dealer"
	FeedbackIgnored     = "ignored"
)

// Feedback is the operator-facing outcome of one scan. Scans never fail
// with an error; every outcome is an advisory value.
type Feedback struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Entry   *ledger.Entry  `json:"entry,omitempty"`
	Label   *barcode.Label `json:"label,omitempty"`
}

// Session is a single operator scan session.
type Session struct {
	cfg       *config.Config
	assembler *barcode.Assembler
	ledger    *ledger.Ledger
}

// New creates a session for the configured home dealership.
func New(cfg *config.Config) *Session {
	return &Session{
		cfg:       cfg,
		assembler: barcode.NewAssembler(cfg.DealerCode),
		ledger:    ledger.New(),
	}
}

// Ledger exposes the session's scan ledger.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Pending returns the in-flight US fragment, if any.
func (s *Session) Pending() *barcode.Pending {
	return s.assembler.Pending()
}

// CancelPending drops the in-flight US fragment.
func (s *Session) CancelPending() {
	s.assembler.Cancel()
}

// ProcessScan feeds one raw scan through the assembler and ledger and
// returns the operator feedback.
func (s *Session) ProcessScan(raw string) Feedback {
	out := s.assembler.Process(raw)

	switch {
	case out.Class == barcode.ClassEmpty:
		return Feedback{Kind: FeedbackIgnored, Message: "empty scan"}

	case out.Quantity > 0:
		e := s.ledger.ApplyQuantityOverride(out.Quantity)
		if e == nil {
			return Feedback{Kind: FeedbackRescan, Message: "Quantity scan with nothing to apply it to. Scan a label first."}
		}
		return Feedback{Kind: FeedbackQuantity, Message: fmt.Sprintf("QTY -> %d for %s", out.Quantity, e.PartNumber), Entry: e}

	case out.Label != nil:
		e := s.ledger.AddLabel(out.Label)
		if out.Label.WrongDealer {
			msg := fmt.Sprintf("WRONG DEALER: %s", out.Label.DealerCode)
			if d := s.cfg.LookupDealer(out.Label.DealerCode); d != nil {
				msg = fmt.Sprintf("WRONG DEALER: %s (%s)", out.Label.DealerCode, d.Name)
			}
			return Feedback{
				Kind:    FeedbackWrongDealer,
				Message: fmt.Sprintf("%s - %s", msg, out.Label.PartNumber),
				Entry:   e,
				Label:   out.Label,
			}
		}
		return Feedback{
			Kind:    FeedbackAdded,
			Message: fmt.Sprintf("%s  SO:%s  PDC:%s", out.Label.PartNumber, out.Label.ShippingOrder, out.Label.PDC),
			Entry:   e,
			Label:   out.Label,
		}

	case out.DecodeFailed:
		return Feedback{Kind: FeedbackRescan, Message: "Could not parse barcode. Rescan the label."}

	case out.Class == barcode.ClassUSHeaderOld || out.Class == barcode.ClassUSHeaderNew:
		msg := "US header scanned. Now scan the part label (either order works)."
		if out.Replaced != nil {
			msg = "US header replaced the previous pending header. Now scan the part label."
		}
		return Feedback{Kind: FeedbackPending, Message: msg}

	case out.Class == barcode.ClassUSPartFragment:
		msg := "Part number scanned. Now scan the shipping header."
		if out.Replaced != nil {
			msg = "Part number replaced the previous pending part. Now scan the shipping header."
		}
		return Feedback{Kind: FeedbackPending, Message: msg}

	case out.Class == barcode.ClassIncompleteCanadian:
		return Feedback{Kind: FeedbackRescan, Message: fmt.Sprintf("INCOMPLETE: expected 34-35 chars, got %d. Rescan.", scanLen(raw))}

	case out.Class == barcode.ClassIncompleteShort:
		return Feedback{Kind: FeedbackRescan, Message: fmt.Sprintf("TOO SHORT (%d chars). Incomplete read? Rescan.", scanLen(raw))}

	case out.Class == barcode.ClassTooLong:
		return Feedback{Kind: FeedbackRescan, Message: fmt.Sprintf("TOO LONG (%d chars). Double scan? Rescan one label.", scanLen(raw))}

	default:
		return Feedback{Kind: FeedbackRescan, Message: fmt.Sprintf("Unknown format (%d chars). Check the label.", scanLen(raw))}
	}
}

func scanLen(raw string) int {
	return len(strings.TrimSpace(raw))
}
