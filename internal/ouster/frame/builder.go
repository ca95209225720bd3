// Package frame accumulates decoded LiDAR returns into complete frames.
//
// The acquisition layer delivers returns one azimuth column at a time, each
// column carrying one return per firing ring. The builder appends columns in
// device readout order, which makes the finished buffer column-major with row
// tiling: all rings for column 0, then all rings for column 1, and so on.
// That buffer plus the authoritative frame width travel together in a Frame
// so conversion sites can never lose the width out of band.
package frame

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/ouster.report/internal/monitoring"
	"github.com/banshee-data/ouster.report/internal/ouster"
)

// Frame is one complete sensor rotation, ready for conversion.
type Frame struct {
	ID         string // uuid assigned at completion
	StampNanos int64  // capture time of the frame's first column
	Height     uint32 // firing rings
	RealWidth  uint32 // authoritative populated column count
	Points     []ouster.PointRecord // column-major, Height*RealWidth records
	Scans      []ouster.ScanSample  // column-major, parallel to Points
	IsDense    bool                 // false if any column carried invalid returns
}

// Config configures a Builder.
type Config struct {
	NumLasers     int           // firing rings per column
	RealWidth     uint32        // columns per complete frame
	FrameCallback func(*Frame)  // invoked synchronously on completion
}

// Builder assembles per-column return batches into Frames. Add may be called
// from one goroutine at a time per Builder; completed frames are handed to
// the callback before Add returns.
type Builder struct {
	mu      sync.Mutex
	cfg     Config
	points  []ouster.PointRecord
	scans   []ouster.ScanSample
	stamp   int64
	columns uint32
	dense   bool
	frames  int64 // completed frame count, for diagnostics
}

// NewBuilder creates a Builder. NumLasers and RealWidth must be positive.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.NumLasers <= 0 {
		return nil, fmt.Errorf("frame builder: NumLasers %d must be positive", cfg.NumLasers)
	}
	if cfg.RealWidth == 0 {
		return nil, fmt.Errorf("frame builder: RealWidth must be positive")
	}
	b := &Builder{cfg: cfg}
	b.reset()
	return b, nil
}

func (b *Builder) reset() {
	capacity := b.cfg.NumLasers * int(b.cfg.RealWidth)
	b.points = make([]ouster.PointRecord, 0, capacity)
	b.scans = make([]ouster.ScanSample, 0, capacity)
	b.columns = 0
	b.stamp = 0
	b.dense = true
}

// AddColumn appends one azimuth column of decoded returns. points must hold
// exactly NumLasers records in ring order; scans is the parallel reduced
// form. stampNanos is the column capture time; the first column's stamp
// becomes the frame stamp. valid=false marks the column as carrying invalid
// returns, which clears the frame's dense flag.
//
// When the configured RealWidth columns have arrived the frame is completed,
// stamped with a fresh uuid, and handed to the callback.
func (b *Builder) AddColumn(points []ouster.PointRecord, scans []ouster.ScanSample, stampNanos int64, valid bool) error {
	if len(points) != b.cfg.NumLasers {
		return fmt.Errorf("frame builder: column has %d records, want %d", len(points), b.cfg.NumLasers)
	}
	if len(scans) != len(points) {
		return fmt.Errorf("frame builder: %d scan samples for %d point records", len(scans), len(points))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.columns == 0 {
		b.stamp = stampNanos
	}
	b.points = append(b.points, points...)
	b.scans = append(b.scans, scans...)
	if !valid {
		b.dense = false
	}
	b.columns++

	if b.columns >= b.cfg.RealWidth {
		b.completeLocked()
	}
	return nil
}

// completeLocked finalizes the current frame and starts a new one. Caller
// holds b.mu.
func (b *Builder) completeLocked() {
	f := &Frame{
		ID:         uuid.New().String(),
		StampNanos: b.stamp,
		Height:     uint32(b.cfg.NumLasers),
		RealWidth:  b.cfg.RealWidth,
		Points:     b.points,
		Scans:      b.scans,
		IsDense:    b.dense,
	}
	b.frames++
	b.reset()

	if b.cfg.FrameCallback != nil {
		b.cfg.FrameCallback(f)
	} else {
		monitoring.Logf("frame %s completed with no callback registered, dropping", f.ID)
	}
}

// PendingColumns returns how many columns the in-progress frame holds.
func (b *Builder) PendingColumns() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.columns
}

// CompletedFrames returns the number of frames completed since creation.
func (b *Builder) CompletedFrames() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}
