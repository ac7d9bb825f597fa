package ingest

import "strings"

// DetectFormat sniffs the vendor layout from a file's leading lines.
// Confidence reflects how specific the matched markers are; callers only
// branch on Format.
func DetectFormat(lines []string) Detection {
	head := lines
	if len(head) > 10 {
		head = head[:10]
	}

	for _, line := range firstN(head, 3) {
		if strings.Contains(line, "Player Id") && strings.Contains(line, "Player Display Name") {
			return Detection{Format: FormatStatSports, Confidence: 0.95}
		}
	}

	hasComment := false
	for _, line := range head {
		if strings.HasPrefix(line, "#") {
			hasComment = true
			break
		}
	}
	if hasComment {
		for _, line := range head {
			if strings.Contains(line, "OpenField Export") {
				return Detection{Format: FormatCatapult, Confidence: 0.90}
			}
		}
	}

	for _, line := range firstN(head, 3) {
		if strings.Contains(line, "Timestamp") && strings.Contains(line, "Velocity") {
			return Detection{Format: FormatGenericGPS, Confidence: 0.80}
		}
	}

	return Detection{Format: FormatUnknown}
}

func firstN(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
