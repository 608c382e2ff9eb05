package entity

import "time"

// DateOf normaliza un instante a su fecha de calendario (medianoche UTC).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween devuelve los días de calendario desde from hasta to (negativo si to es anterior).
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// ParseDate interpreta una fecha YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
