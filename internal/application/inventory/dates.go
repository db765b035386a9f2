package inventory

import (
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

const dateLayout = "2006-01-02"

// parseEntryDate acepta RFC3339 o YYYY-MM-DD. Una fecha sin hora toma la hora del día de clock,
// así una carga del mismo día queda después de los ajustes ya registrados ese día.
func parseEntryDate(field, s string, clock time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.Validation(field, "fecha requerida")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, domain.Validation(field, "fecha inválida %q (use YYYY-MM-DD o RFC3339)", s)
	}
	clock = clock.UTC()
	h, m, sec := clock.Clock()
	return time.Date(t.Year(), t.Month(), t.Day(), h, m, sec, clock.Nanosecond(), time.UTC), nil
}

// parseDay fecha de calendario en UTC (00:00). Acepta también RFC3339 y toma su día.
func parseDay(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.Validation(field, "fecha requerida")
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, domain.Validation(field, "fecha inválida %q (use YYYY-MM-DD)", s)
}

// endOfDay último instante del día (rango inclusivo).
func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
