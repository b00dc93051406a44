/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package bytesize renders raw byte counts as binary (1024-based) magnitudes.
//
// A count stays in the current unit while it is at most ten of the next
// unit, so 10240 bytes is "10240 B" and 10241 bytes is "10.0009765625 KiB".
// Magnitudes are never rounded.
package bytesize

import (
	"math"
	"strconv"
	"strings"
)

// Unknown is returned when no valid byte count is available.
const Unknown = "-"

const (
	kibi      = 1024
	threshold = 10 * kibi
)

var units = [...]string{"B", "KiB", "MiB", "GiB", "TiB"}

// Humanize formats an optional byte count. A nil count is rendered as Unknown.
func Humanize(bytes *float64) string {
	if bytes == nil {
		return Unknown
	}

	return Format(*bytes)
}

// HumanizeInt formats a file size.
func HumanizeInt(bytes int64) string {
	return Format(float64(bytes))
}

// Format picks the coarsest unit, up to TiB, whose magnitude does not
// exceed 10240. NaN is rendered as Unknown.
func Format(bytes float64) string {
	if math.IsNaN(bytes) {
		return Unknown
	}

	value, unit := bytes, 0
	for value > threshold && unit < len(units)-1 {
		value /= kibi
		unit++
	}

	return magnitude(value) + " " + units[unit]
}

// Parse reads a textual byte count, such as a query parameter or a command
// line argument. Blank, malformed and NaN input report false.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}

	return v, true
}

// magnitude prints the shortest decimal that round-trips to v, switching to
// exponent form outside [1e-6, 1e21).
func magnitude(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// also folds negative zero
		return "0"
	}

	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")

		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}
