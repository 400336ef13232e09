package geo

import "time"

// gpsEpoch is the origin of GPS week numbering, 1980-01-06T00:00:00Z.
var gpsEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// TimeFromGPS converts a GPS (week, millisecond-of-week) pair into a UTC
// timestamp. It does not apply the UTC/GPS leap-second offset (currently 18s
// as of 2017): every protocol here reports this pair purely to timestamp a
// position fix, where being off by a handful of seconds is immaterial.
func TimeFromGPS(week uint16, ms uint32) time.Time {
	return gpsEpoch.Add(time.Duration(week) * 7 * 24 * time.Hour).Add(time.Duration(ms) * time.Millisecond)
}
