package barcode

import (
	"strconv"
	"strings"
	"time"
)

// FragmentKind distinguishes the two halves of a US two-label scan.
type FragmentKind string

const (
	FragmentHeader FragmentKind = "header"
	FragmentPart   FragmentKind = "part"
)

// Pending is the single in-flight US fragment awaiting its counterpart.
type Pending struct {
	Kind       FragmentKind `json:"kind"`
	Value      string       `json:"value"`
	CapturedAt time.Time    `json:"capturedAt"`
}

// Counterpart names the fragment kind still needed to complete the label.
func (p *Pending) Counterpart() FragmentKind {
	if p.Kind == FragmentHeader {
		return FragmentPart
	}
	return FragmentHeader
}

// Outcome is the result of feeding one raw scan to the Assembler. Exactly
// one of the following holds: Label is set (a completed decode), Quantity
// is > 0 (a quantity-override scan), Pending advanced (waiting for the
// other half), or the classification is a rescan band / decode failure.
type Outcome struct {
	Class        Classification
	Label        *Label
	Quantity     int
	Pending      *Pending
	Replaced     *Pending // prior same-kind fragment discarded by this scan
	DecodeFailed bool
}

// Assembler is the scan-assembly state machine. It holds at most one
// pending US fragment and combines it with the next compatible scan. A
// Canadian or US full scan always completes on its own and clears any
// dangling fragment.
type Assembler struct {
	homeDealerCode string
	pending        *Pending
	now            func() time.Time
}

// NewAssembler returns an Assembler bound to the home dealer code used to
// build combined US payloads and flag wrong-dealer labels.
func NewAssembler(homeDealerCode string) *Assembler {
	return &Assembler{homeDealerCode: homeDealerCode, now: time.Now}
}

// Pending returns the current in-flight fragment, or nil.
func (a *Assembler) Pending() *Pending {
	return a.pending
}

// Cancel drops the pending fragment, forcing the idle state. Returns the
// fragment that was dropped, if any.
func (a *Assembler) Cancel() *Pending {
	p := a.pending
	a.pending = nil
	return p
}

// Process classifies one raw scan and advances the state machine.
func (a *Assembler) Process(raw string) Outcome {
	v := strings.TrimSpace(raw)
	cls := Classify(v)
	out := Outcome{Class: cls}

	switch cls {
	case ClassEmpty:

	case ClassQuantityOverride:
		// Targets the ledger, never the assembly state.
		out.Quantity, _ = strconv.Atoi(v)

	case ClassCanadianFull:
		out.Label = DecodeCanadian(v, a.homeDealerCode)
		out.DecodeFailed = out.Label == nil
		a.pending = nil

	case ClassUSFull:
		out.Label = DecodeUS(v, a.homeDealerCode)
		out.DecodeFailed = out.Label == nil
		a.pending = nil

	case ClassUSHeaderOld, ClassUSHeaderNew:
		header := v
		if cls == ClassUSHeaderNew {
			// The new-format header carries 9 trailing characters that are
			// not part of the positional payload.
			header = v[:10]
		}
		if a.pending != nil && a.pending.Kind == FragmentPart {
			combined := header + a.homeDealerCode + a.pending.Value
			out.Label = DecodeUS(combined, a.homeDealerCode)
			out.DecodeFailed = out.Label == nil
			a.pending = nil
			break
		}
		if a.pending != nil {
			out.Replaced = a.pending
		}
		a.pending = &Pending{Kind: FragmentHeader, Value: header, CapturedAt: a.now()}

	case ClassUSPartFragment:
		if a.pending != nil && a.pending.Kind == FragmentHeader {
			combined := a.pending.Value + a.homeDealerCode + v
			out.Label = DecodeUS(combined, a.homeDealerCode)
			out.DecodeFailed = out.Label == nil
			a.pending = nil
			break
		}
		if a.pending != nil {
			out.Replaced = a.pending
		}
		a.pending = &Pending{Kind: FragmentPart, Value: v, CapturedAt: a.now()}

	case ClassIncompleteCanadian, ClassTooLong:
		// Operator error that invalidates the two-scan sequence.
		a.pending = nil

	case ClassIncompleteShort, ClassUnknown:
		// A truncated read may still be retried without losing the other half.
	}

	out.Pending = a.pending
	return out
}
