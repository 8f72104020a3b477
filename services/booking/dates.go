package booking

import (
	"strings"
	"time"

	"pulsefit/utils"
)

// normalizeDate reduces raw to its calendar date. RFC3339 timestamps keep
// the date in their own offset. Empty input yields fallback.
func normalizeDate(raw, fallback string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(utils.DateLayout, raw); err == nil {
		return t.Format(utils.DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(utils.DateLayout), nil
	}
	return "", utils.Validation("invalid date " + raw + ": expected YYYY-MM-DD")
}
