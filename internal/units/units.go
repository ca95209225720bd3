// Package units provides the shared unit-conversion constants for the
// conversion layer. Device buffers carry millimeters and nanoseconds; every
// published artifact carries meters and seconds.
package units

// Conversion factors between device units and published units.
const (
	MillimetersPerMeter  = 1e3
	NanosecondsPerSecond = 1e9
)

// MillimetersToMeters converts a device range reading to meters.
func MillimetersToMeters(mm float64) float64 {
	return mm / MillimetersPerMeter
}

// NanosecondsToSeconds converts a device capture time to seconds.
func NanosecondsToSeconds(ns float64) float64 {
	return ns / NanosecondsPerSecond
}
