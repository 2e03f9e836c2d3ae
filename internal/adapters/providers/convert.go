package providers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// flexBool tolerates the mixed truth encodings registrars use: JSON
// booleans, "1"/"0", "yes"/"no", "true"/"false" and bare numbers.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		*b = true
	default:
		var v bool
		if err := json.Unmarshal(data, &v); err == nil {
			*b = flexBool(v)
			return nil
		}
		*b = false
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime tries the layouts the three registrars are known to emit and
// falls back to the given default when none match (or the string is empty).
func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

// defaultExpiry approximates the expiry of a fresh registration when the
// registrar response omits it.
func defaultExpiry(years int) time.Time {
	if years < 1 {
		years = 1
	}
	return time.Now().AddDate(years, 0, 0)
}

// transferEstimate is the conventional week-long window before a
// transfer completes at the gaining registrar.
func transferEstimate() time.Time {
	return time.Now().Add(7 * 24 * time.Hour)
}

// newTransferID generates a fallback transfer id when the registrar
// response carries none.
func newTransferID() string {
	return "xfr_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// splitName splits a full contact name into the first/last pair most
// registrar contact schemas demand.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full, ""
	}
	first = parts[0]
	last = strings.Join(parts[1:], " ")
	return first, last
}
