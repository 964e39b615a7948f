package feed

import "strings"

// POInfo identifies a purchase-order feed from its export filename.
type POInfo struct {
	PBSPO     string `json:"pbsPO"`
	GMControl string `json:"gmControl"`
	Date      string `json:"dateStr"`
}

const exportPrefix = "po__control__details_"

// ParseFilename extracts PO identity from a PWB+ export filename of the
// form po__control__details_<po>_<gmControl>_<date parts...>. Filenames
// without the prefix fall back to plain underscore splitting.
func ParseFilename(name string) POInfo {
	clean := name
	if i := strings.LastIndex(clean, "."); i > 0 {
		clean = clean[:i]
	}
	if !strings.HasPrefix(clean, exportPrefix) {
		parts := make([]string, 0, 3)
		for _, p := range strings.Split(clean, "_") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		info := POInfo{PBSPO: "Unknown"}
		if len(parts) > 0 {
			info.PBSPO = parts[0]
		}
		if len(parts) > 1 {
			info.GMControl = parts[1]
		}
		return info
	}
	seg := strings.Split(clean[len(exportPrefix):], "_")
	info := POInfo{}
	if len(seg) > 0 {
		info.PBSPO = seg[0]
	}
	if len(seg) > 1 {
		info.GMControl = seg[1]
	}
	if len(seg) > 2 {
		info.Date = strings.Join(seg[2:], "-")
	}
	return info
}
