package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate interpreta YYYY-MM-DD como data de calendário (meia-noite UTC),
// o mesmo valor que o driver devolve para colunas DATE. Timestamps
// RFC3339 enviados pelo frontend são reduzidos ao dia informado.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, raw)
	if err == nil {
		return d, nil
	}

	ts, tsErr := time.Parse(time.RFC3339, raw)
	if tsErr != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Today devolve a data corrente no fuso informado, como data de calendário
func Today(tz string) time.Time {
	now := NowIn(tz)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func IsClock(raw string) bool {
	_, err := time.Parse(ClockLayout, raw)
	return err == nil
}
