package format

import (
	"fmt"
	"time"
)

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// Date renders t as a long German date, e.g. "2. Januar 2025".
func Date(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}

// Relative renders the distance from t to now in German ("vor 3 Stunden").
// Anything 30 days or older falls back to Date.
func Relative(t, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)

	switch {
	case secs < 60:
		return "gerade eben"
	case secs < 3600:
		return plural(secs/60, "Minute", "n")
	case secs < 86400:
		return plural(secs/3600, "Stunde", "n")
	case secs < 30*86400:
		return plural(secs/86400, "Tag", "en")
	default:
		return Date(t)
	}
}

func plural(n int64, word, suffix string) string {
	if n != 1 {
		word += suffix
	}
	return fmt.Sprintf("vor %d %s", n, word)
}
