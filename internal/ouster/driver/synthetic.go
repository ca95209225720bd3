package driver

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/timeutil"
)

// SyntheticSource generates device-shaped columns for testing and demos, so
// the full frame/convert/publish path can run without a sensor on the wire.
type SyntheticSource struct {
	NumLasers int
	RealWidth uint32
	FrameRate float64        // frames per second
	Radius    float64        // meters, range of the synthetic wall
	Clock     timeutil.Clock // pacing and stamping, real clock by default

	rng *rand.Rand
}

// NewSyntheticSource creates a generator matched to the driver's geometry.
func NewSyntheticSource(numLasers int, realWidth uint32) *SyntheticSource {
	return &SyntheticSource{
		NumLasers: numLasers,
		RealWidth: realWidth,
		FrameRate: 10.0,
		Radius:    5.0,
		Clock:     timeutil.RealClock{},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run feeds synthetic columns into d until ctx is cancelled. Columns are
// produced a frame at a time and paced to FrameRate.
func (g *SyntheticSource) Run(ctx context.Context, d *Driver) error {
	framePeriod := time.Duration(float64(time.Second) / g.FrameRate)
	ticker := g.Clock.NewTicker(framePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			if err := g.emitFrame(ctx, d); err != nil {
				return err
			}
		}
	}
}

// emitFrame generates one full rotation of columns.
func (g *SyntheticSource) emitFrame(ctx context.Context, d *Driver) error {
	frameStart := g.Clock.Now().UnixNano()
	columnPeriod := uint32(float64(time.Second) / g.FrameRate / float64(g.RealWidth))

	for col := uint32(0); col < g.RealWidth; col++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		azimuth := 2 * math.Pi * float64(col) / float64(g.RealWidth)
		t := col * columnPeriod

		points := make([]ouster.PointRecord, g.NumLasers)
		scans := make([]ouster.ScanSample, g.NumLasers)
		for ring := 0; ring < g.NumLasers; ring++ {
			// A cylindrical wall with per-return jitter.
			r := g.Radius + g.rng.Float64()*0.05
			elevation := float64(ring-g.NumLasers/2) * (math.Pi / 180)
			x := float32(r * math.Cos(elevation) * math.Cos(azimuth))
			y := float32(r * math.Cos(elevation) * math.Sin(azimuth))
			z := float32(r * math.Sin(elevation))
			intensity := float32(g.rng.Intn(255))
			rangeMM := uint32(r * 1000)

			points[ring] = ouster.NewPointRecord(
				x, y, z, intensity, t, uint16(g.rng.Intn(1024)),
				uint8(ring), uint8(col%256), uint16(g.rng.Intn(64)), rangeMM)
			scans[ring] = ouster.ScanSample{
				Range:     rangeMM,
				Intensity: intensity,
				Ring:      uint8(ring),
				T:         t,
			}
		}

		if err := d.AddColumn(points, scans, frameStart+int64(t), true); err != nil {
			return err
		}
	}
	return nil
}
