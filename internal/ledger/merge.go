package ledger

// Merge folds a remote snapshot into the ledger using field-merge-by-key:
// remote entries matched by (part number, shipping order) win on scalar
// fields, boolean flags are OR'd, scan history is replaced; unmatched
// remote entries are appended. Merging the same snapshot twice yields the
// same ledger state, so a repeated poll is harmless.
func (l *Ledger) Merge(remote []*Entry) {
	byKey := make(map[string]*Entry, len(l.entries))
	for _, e := range l.entries {
		byKey[e.Key()] = e
	}
	for _, r := range remote {
		if local, ok := byKey[r.Key()]; ok {
			local.Quantity = r.Quantity
			local.Scans = append([]string(nil), r.Scans...)
			local.DamageClaim = local.DamageClaim || r.DamageClaim
			local.WrongDealer = local.WrongDealer || r.WrongDealer
			if r.PDC != "" {
				local.PDC = r.PDC
			}
			if r.DealerCode != "" {
				local.DealerCode = r.DealerCode
			}
			continue
		}
		c := *r
		c.Scans = append([]string(nil), r.Scans...)
		l.entries = append(l.entries, &c)
		byKey[c.Key()] = l.entries[len(l.entries)-1]
	}
}
