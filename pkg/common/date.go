package common

import (
	"time"
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Days is a calendar date stored as a day count since 1970-01-01,
// the same encoding parquet uses for DATE columns.
type Days int32

func (d Days) ToTime() time.Time {
	return epoch.AddDate(0, 0, int(d))
}

func (d Days) String() string {
	return d.ToTime().Format(time.DateOnly)
}

func TimeToDays(t time.Time) Days {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Days(u.Sub(epoch) / (24 * time.Hour))
}

func ParseDays(s string) (Days, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, err
	}
	return TimeToDays(t), nil
}
