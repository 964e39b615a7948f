package barcode

import (
	"strconv"
	"strings"
)

// Classification identifies which barcode dialect (or failure band) a raw
// scan belongs to. GM shipment labels are fixed-format, so classification
// is purely a function of trimmed length and character class.
type Classification int

const (
	ClassEmpty Classification = iota
	ClassQuantityOverride
	ClassCanadianFull
	ClassUSPartFragment
	ClassUSHeaderOld
	ClassUSHeaderNew
	ClassUSFull
	ClassIncompleteCanadian
	ClassIncompleteShort
	ClassTooLong
	ClassUnknown
)

// String returns a short stable name, used in feedback and logs.
func (c Classification) String() string {
	switch c {
	case ClassEmpty:
		return "empty"
	case ClassQuantityOverride:
		return "quantity"
	case ClassCanadianFull:
		return "canadian"
	case ClassUSPartFragment:
		return "us_part"
	case ClassUSHeaderOld:
		return "us_header_old"
	case ClassUSHeaderNew:
		return "us_header_new"
	case ClassUSFull:
		return "us_full"
	case ClassIncompleteCanadian:
		return "incomplete_canadian"
	case ClassIncompleteShort:
		return "incomplete_short"
	case ClassTooLong:
		return "too_long"
	default:
		return "unknown"
	}
}

// NeedsRescan reports whether the classification is an advisory failure
// band: the operator must rescan, nothing is decoded.
func (c Classification) NeedsRescan() bool {
	switch c {
	case ClassIncompleteCanadian, ClassIncompleteShort, ClassTooLong, ClassUnknown:
		return true
	}
	return false
}

// IsQuantityOverride reports whether the trimmed value is a standalone
// quantity scan: an integer 2-99 with no leading zeros or stray characters.
// 0 and 1 are excluded so a lone digit is treated as an incomplete read.
func IsQuantityOverride(v string) bool {
	v = strings.TrimSpace(v)
	n, err := strconv.Atoi(v)
	if err != nil {
		return false
	}
	return n >= 2 && n <= 99 && strconv.Itoa(n) == v
}

// Classify maps a raw scanned string to its Classification. First match
// wins; the length bands are half-open and non-overlapping, so every input
// lands in exactly one class.
func Classify(raw string) Classification {
	v := strings.TrimSpace(raw)
	switch {
	case len(v) == 0:
		return ClassEmpty
	case IsQuantityOverride(v):
		return ClassQuantityOverride
	case len(v) == 34 || len(v) == 35:
		return ClassCanadianFull
	case len(v) == 8 && isAlphanumeric(v):
		return ClassUSPartFragment
	case len(v) >= 10 && len(v) <= 18:
		return ClassUSHeaderOld
	case len(v) == 19:
		return ClassUSHeaderNew
	case len(v) == 24:
		return ClassUSFull
	case len(v) >= 20 && len(v) <= 33:
		return ClassIncompleteCanadian
	case len(v) >= 1 && len(v) <= 7:
		return ClassIncompleteShort
	case len(v) > 35:
		return ClassTooLong
	default:
		return ClassUnknown
	}
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
