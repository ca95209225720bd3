package convert

import (
	"fmt"
	"math"

	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
	"github.com/banshee-data/ouster.report/internal/units"
)

// Static range bounds of the sensor, attached to every scan as device
// characteristics rather than computed from data.
const (
	ScanRangeMin = 0.025 // meters
	ScanRangeMax = 20.0  // meters
)

// ToLaserScan projects a multi-ring frame buffer down to the single ring
// ringToUse, producing a planar scan.
//
// samples is column-major over (ring, column) exactly like the point-cloud
// buffer, and realWidth is the authoritative column count for the frame. The
// first mdata.NumLasers*realWidth samples are walked in buffer order; every
// sample on the selected ring contributes its range (converted to meters) and
// raw intensity, in encounter order. Other rings are skipped, so the output
// length is the selected ring's sample count, not a fixed realWidth —
// consumers must size off len(Ranges).
//
// The angular convention is zero-based over a full rotation (angle_min 0,
// angle_max 2π) to match the point-cloud azimuth convention. Scan timing is
// derived from the capture time of the first sample in the buffer:
// scan_time = t[0] in seconds, time_increment = scan_time / realWidth.
//
// A buffer shorter than NumLasers*realWidth fails with ErrPrecondition before
// any samples are read. NumLasers*realWidth == 0 yields an empty scan with a
// populated header and zero timing.
func ToLaserScan(
	samples []ouster.ScanSample,
	realWidth uint32,
	stampNanos int64,
	frameID string,
	mdata ouster.Metadata,
	ringToUse uint8,
) (msgs.LaserScan, error) {
	scan := msgs.LaserScan{
		Header:   msgs.Header{Stamp: stampNanos, FrameID: frameID},
		AngleMin: 0,
		AngleMax: 2 * math.Pi,
		RangeMin: ScanRangeMin,
		RangeMax: ScanRangeMax,
	}

	need := mdata.NumLasers * int(realWidth)
	if need == 0 {
		scan.Ranges = []float64{}
		scan.Intensities = []float64{}
		return scan, nil
	}
	if len(samples) < need {
		return msgs.LaserScan{}, fmt.Errorf(
			"%w: scan buffer holds %d samples, %d lasers x width %d needs %d",
			ErrPrecondition, len(samples), mdata.NumLasers, realWidth, need)
	}

	resolution := float64(realWidth)
	scan.ScanTime = units.NanosecondsToSeconds(float64(samples[0].T))
	scan.TimeIncrement = scan.ScanTime / resolution
	scan.AngleIncrement = 2 * math.Pi / resolution

	// One ring normally covers realWidth columns; reserve for that and let
	// append handle rings with sparser coverage.
	scan.Ranges = make([]float64, 0, realWidth)
	scan.Intensities = make([]float64, 0, realWidth)
	for i := 0; i < need; i++ {
		if samples[i].Ring != ringToUse {
			continue
		}
		scan.Ranges = append(scan.Ranges, units.MillimetersToMeters(float64(samples[i].Range)))
		scan.Intensities = append(scan.Intensities, float64(samples[i].Intensity))
	}

	return scan, nil
}
