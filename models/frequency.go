package models

// Frequencies lists the supported bar frequency tokens, largest period
// first. Storage treats the token as opaque; this list exists for input
// validation and display.
var Frequencies = []string{
	"y", "q", "m", "w", "d", "120m", "60m", "30m", "15m", "5m", "1m",
}

var frequencyLabels = map[string]string{
	"y":    "yearly",
	"q":    "quarterly",
	"m":    "monthly",
	"w":    "weekly",
	"d":    "daily",
	"120m": "120 minute",
	"60m":  "60 minute",
	"30m":  "30 minute",
	"15m":  "15 minute",
	"5m":   "5 minute",
	"1m":   "1 minute",
}

func IsFrequency(tok string) bool {
	_, ok := frequencyLabels[tok]
	return ok
}

// FrequencyLabel returns a human readable name for a frequency token, or
// the token itself when unknown.
func FrequencyLabel(tok string) string {
	if label, ok := frequencyLabels[tok]; ok {
		return label
	}
	return tok
}
