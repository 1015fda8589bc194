// Package isoduration converts ISO 8601 duration strings, the format the
// YouTube Data API uses for video lengths (e.g. "PT5M30S"), into whole seconds.
package isoduration

import "github.com/sosodev/duration"

// Seconds returns the total number of whole seconds in an ISO 8601 duration,
// truncating any sub-second part. Malformed input yields 0, so an unknown
// duration is indistinguishable from a zero-length one.
func Seconds(s string) int {
	d, err := duration.Parse(s)
	if err != nil {
		return 0
	}
	return int(d.ToTimeDuration().Seconds())
}
