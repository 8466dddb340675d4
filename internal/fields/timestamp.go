package fields

import (
	"fmt"
	"math"
	"time"
)

// RippleEpoch is January 1, 2000 00:00:00 UTC in Unix time
const RippleEpoch int64 = 946684800

// TimestampLayout is the ISO-8601 form timestamps are rendered in.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FromRippleTime renders seconds since the ripple epoch as an ISO-8601 string.
func FromRippleTime(rippleTime uint32) string {
	return time.Unix(int64(rippleTime)+RippleEpoch, 0).UTC().Format(TimestampLayout)
}

// ToRippleTime parses an ISO-8601 instant into seconds since the ripple epoch.
func ToRippleTime(iso string) (uint32, error) {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, iso)
	}
	return TimeToRipple(t)
}

// TimeToRipple converts a time to seconds since the ripple epoch. Instants with a
// sub-second part, before the epoch, or past the uint32 range are rejected.
func TimeToRipple(t time.Time) (uint32, error) {
	if t.Nanosecond() != 0 {
		return 0, fmt.Errorf("%w: %s has sub-second precision", ErrInvalidTimestamp, t)
	}
	offset := t.Unix() - RippleEpoch
	if offset < 0 || offset > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s is outside the ledger time range", ErrInvalidTimestamp, t)
	}
	return uint32(offset), nil
}
