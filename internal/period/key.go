package period

import (
	"fmt"
	"time"
)

const keyFormat = "2006-01-02"

// Key identifies a period bucket. It is the day number (days since
// 1970-01-01) of the first calendar day in the bucket, so keys of one
// periodicity compare and sort chronologically.
type Key int64

// ParseKey parses the YYYY-MM-DD form produced by Key.String.
func ParseKey(s string) (Key, error) {
	t, err := time.Parse(keyFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid period key %q: %w", s, err)
	}
	return Key(dayNumber(t)), nil
}

// Time returns midnight UTC of the first day in the bucket.
func (k Key) Time() time.Time {
	return time.Unix(int64(k)*secondsPerDay, 0).UTC()
}

func (k Key) String() string {
	return k.Time().Format(keyFormat)
}
