package barcode

import "strings"

// Label origin values.
const (
	OriginCanada = "CA"
	OriginUS     = "US"
)

// Label is a fully decoded shipment label. All positional fields are
// fixed-width slices of the (padded) scan payload.
type Label struct {
	Origin        string `json:"type"`
	PDC           string `json:"pdc"`
	ShippingOrder string `json:"shippingOrder"`
	DealerCode    string `json:"dealerCode"`
	PartNumber    string `json:"partNumber"`
	Serial        string `json:"serial"`
	Raw           string `json:"raw"`
	WrongDealer   bool   `json:"wrongDealer"`
}

// DecodeCanadian decodes a Canadian full label. A 34-char payload is a
// damaged label that dropped its leading zero, so it is left-padded back to
// 35. Returns nil when the payload is not exactly 35 digits after padding.
//
// Layout: pdc[0:3] shippingOrder[3:10] dealerCode[10:16] partNumber[16:24]
// serial[24:].
func DecodeCanadian(raw, homeDealerCode string) *Label {
	s := raw
	if len(s) == 34 {
		s = "0" + s
	}
	if len(s) != 35 || !isDigits(s) {
		return nil
	}
	dealer := s[10:16]
	return &Label{
		Origin:        OriginCanada,
		PDC:           s[0:3],
		ShippingOrder: s[3:10],
		DealerCode:    dealer,
		PartNumber:    s[16:24],
		Serial:        s[24:],
		Raw:           raw,
		WrongDealer:   dealer != homeDealerCode,
	}
}

// DecodeUS decodes a combined US label (header + dealer code + part
// fragment, or a single 24-char full scan). US part numbers may be
// alphanumeric, so only length is enforced. Returns nil when the combined
// payload is shorter than 24 characters.
func DecodeUS(combined, homeDealerCode string) *Label {
	if len(combined) < 24 {
		return nil
	}
	serial := ""
	if len(combined) > 24 {
		serial = combined[24:]
	}
	dealer := combined[10:16]
	return &Label{
		Origin:        OriginUS,
		PDC:           combined[0:3],
		ShippingOrder: combined[3:10],
		DealerCode:    dealer,
		PartNumber:    combined[16:24],
		Serial:        serial,
		Raw:           combined,
		WrongDealer:   dealer != homeDealerCode,
	}
}

// Key returns the ledger dedup key for the label.
func (l *Label) Key() string {
	return l.PartNumber + "|" + l.ShippingOrder
}

func isDigits(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0 && s != ""
}
