// Package report composes the end-of-shift discrepancy form: the email
// subject and body summarizing shorts, damage claims and wrong-dealer
// parts, and the .eml file that carries the form as an attachment.
package report

import (
	"fmt"
	"strings"

	"partsrecv/internal/config"
	"partsrecv/internal/feed"
	"partsrecv/internal/ledger"
	"partsrecv/internal/reconcile"
)

// DamagePresets are the canned damage comments offered on DIPP lines.
var DamagePresets = []string{
	"Box damaged", "Open package", "Water damage", "Crushed box",
	"Torn packaging", "Missing label", "Carrier damage", "Non-returnable",
}

// Form gathers everything the discrepancy email needs.
type Form struct {
	Cfg          *config.Config
	Shorts       []reconcile.Result
	DamageClaims []*ledger.Entry
	WrongDealer  []*ledger.Entry
	CompletedBy  string
	Date         string
	PO           *feed.POInfo
}

// SubjectParts lists the discrepancy categories present, in fixed order.
func (f *Form) SubjectParts() []string {
	var parts []string
	if len(f.DamageClaims) > 0 {
		parts = append(parts, "DIPP")
	}
	if len(f.Shorts) > 0 {
		parts = append(parts, "Did Not Receive")
	}
	if len(f.WrongDealer) > 0 {
		parts = append(parts, "Parts for Another Dealer")
	}
	return parts
}

// Subject builds the email subject line.
func (f *Form) Subject() string {
	head := "Woodstock Form"
	if parts := f.SubjectParts(); len(parts) > 0 {
		head = strings.Join(parts, " / ")
	}
	s := head + " - " + f.Cfg.DealerCode
	if f.PO != nil {
		ref := f.PO.GMControl
		if ref == "" {
			ref = f.PO.PBSPO
		}
		s += " - " + ref
	}
	return s
}

// Body builds the plain-text email body.
func (f *Form) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please find the attached Woodstock form for dealer %s (%s).\n\n",
		f.Cfg.DealerCode, f.Cfg.DealerName)
	fmt.Fprintf(&b, "Date: %s\n", f.Date)
	completedBy := f.CompletedBy
	if completedBy == "" {
		completedBy = "(not specified)"
	}
	fmt.Fprintf(&b, "Completed by: %s\n", completedBy)
	fmt.Fprintf(&b, "Phone: %s", f.Cfg.Phone)
	if f.PO != nil {
		fmt.Fprintf(&b, "\nPO: %s / GM Control: %s", f.PO.PBSPO, f.PO.GMControl)
	}
	b.WriteString("\n\nSummary:\n")
	if n := len(f.Shorts); n > 0 {
		fmt.Fprintf(&b, "- %d short\n", n)
	}
	if n := len(f.DamageClaims); n > 0 {
		fmt.Fprintf(&b, "- %d DIPP\n", n)
	}
	if n := len(f.WrongDealer); n > 0 {
		fmt.Fprintf(&b, "- %d wrong dealer\n", n)
	}
	return b.String()
}

// CCList builds the CC header value from the known-dealer contacts of every
// wrong-dealer code present. Codes without a known email are skipped.
func (f *Form) CCList() string {
	seen := make(map[string]struct{})
	var cc []string
	for _, e := range f.WrongDealer {
		if _, ok := seen[e.DealerCode]; ok {
			continue
		}
		seen[e.DealerCode] = struct{}{}
		d := f.Cfg.LookupDealer(e.DealerCode)
		if d == nil || d.Email == "" {
			continue
		}
		if d.Contact != "" {
			cc = append(cc, fmt.Sprintf("%q <%s>", d.Contact, d.Email))
		} else {
			cc = append(cc, "<"+d.Email+">")
		}
	}
	return strings.Join(cc, ", ")
}
