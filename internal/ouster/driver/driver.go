// Package driver orchestrates one sensor session: it owns the frame builder,
// runs the per-frame conversions, and hands the resulting artifacts to the
// publisher and the frame store. The conversion layer stays pure; everything
// stateful about a session lives here.
package driver

import (
	"fmt"

	"github.com/banshee-data/ouster.report/internal/config"
	"github.com/banshee-data/ouster.report/internal/monitoring"
	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/ouster/convert"
	"github.com/banshee-data/ouster.report/internal/ouster/frame"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
	"github.com/banshee-data/ouster.report/internal/ouster/publish"
	"github.com/banshee-data/ouster.report/internal/ouster/store"
	"github.com/banshee-data/ouster.report/internal/timeutil"
)

// ImuSink receives decoded inertial readings.
type ImuSink func(msgs.Imu)

// Driver runs the conversion pipeline for one sensor session.
type Driver struct {
	cfg       config.DriverConfig
	mdata     ouster.Metadata
	builder   *frame.Builder
	publisher *publish.Publisher
	mqtt      *publish.MQTTPublisher // nil when MQTT is disabled
	frames    *store.FrameStore      // nil when persistence is disabled
	imuDec    convert.ImuDecoder
	clock     timeutil.Clock
}

// Options carries the optional collaborators a Driver can publish into.
type Options struct {
	MQTT       *publish.MQTTPublisher
	FrameStore *store.FrameStore
	ImuDecoder convert.ImuDecoder // defaults to the stub
	Depth      int                // in-process subscriber buffer depth
	Clock      timeutil.Clock     // defaults to the real clock
}

// New builds a Driver from a validated configuration.
func New(cfg config.DriverConfig, opts Options) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("driver config: %w", err)
	}

	dec := opts.ImuDecoder
	if dec == nil {
		dec = convert.StubImuDecoder{}
	}
	depth := opts.Depth
	if depth == 0 {
		depth = 8
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	d := &Driver{
		cfg:       cfg,
		mdata:     cfg.Metadata(),
		publisher: publish.NewPublisher(depth),
		mqtt:      opts.MQTT,
		frames:    opts.FrameStore,
		imuDec:    dec,
		clock:     clock,
	}

	builder, err := frame.NewBuilder(frame.Config{
		NumLasers:     cfg.NumLasers,
		RealWidth:     cfg.RealWidth,
		FrameCallback: d.handleFrame,
	})
	if err != nil {
		return nil, err
	}
	d.builder = builder
	return d, nil
}

// Subscribe attaches an in-process consumer of converted frame artifacts.
func (d *Driver) Subscribe() (<-chan *publish.FrameArtifacts, func()) {
	return d.publisher.Subscribe()
}

// AddColumn feeds one decoded azimuth column into the session. The
// acquisition integration calls this once per column in device readout
// order; frame completion and conversion happen synchronously inside.
func (d *Driver) AddColumn(points []ouster.PointRecord, scans []ouster.ScanSample, stampNanos int64, valid bool) error {
	return d.builder.AddColumn(points, scans, stampNanos, valid)
}

// HandleImuPacket decodes one raw inertial packet and publishes the reading.
func (d *Driver) HandleImuPacket(buf []byte) {
	m := d.imuDec.Decode(buf, d.cfg.ImuFrame, d.clock.Now().UnixNano())
	if d.mqtt != nil {
		if err := d.mqtt.PublishImu(m); err != nil {
			monitoring.Logf("publishing imu reading: %v", err)
		}
	}
}

// PublishSession publishes the per-session artifacts: device metadata and
// the mount transform. Call once after connecting, before frame data flows.
func (d *Driver) PublishSession(stampNanos int64) error {
	tf, err := convert.CalibrationToTransform(
		d.cfg.CalibrationOrIdentity(), d.cfg.MountFrame, d.cfg.LaserFrame, stampNanos)
	if err != nil {
		return fmt.Errorf("session transform: %w", err)
	}
	if d.mqtt == nil {
		return nil
	}
	if err := d.mqtt.PublishMetadata(convert.ToMetadataMsg(d.mdata)); err != nil {
		return err
	}
	return d.mqtt.PublishTransform(tf)
}

// handleFrame converts one completed frame and distributes the artifacts.
// Runs on the builder's caller goroutine; conversion cost is the frame
// budget, so anything slow (MQTT, sqlite) gets errors logged rather than
// retried here.
func (d *Driver) handleFrame(f *frame.Frame) {
	start := d.clock.Now()

	cloud, err := convert.ToPointCloud(f.Points, f.Height, f.RealWidth, f.StampNanos, d.cfg.LaserFrame, f.IsDense)
	if err != nil {
		monitoring.Logf("frame %s: dropping frame, cloud conversion failed: %v", f.ID, err)
		return
	}
	scan, err := convert.ToLaserScan(f.Scans, f.RealWidth, f.StampNanos, d.cfg.LaserFrame, d.mdata, d.cfg.ScanRing)
	if err != nil {
		monitoring.Logf("frame %s: dropping frame, scan conversion failed: %v", f.ID, err)
		return
	}
	elapsed := d.clock.Since(start)

	d.publisher.Publish(&publish.FrameArtifacts{
		FrameID:    f.ID,
		StampNanos: f.StampNanos,
		Cloud:      cloud,
		Scan:       scan,
	})

	if d.mqtt != nil {
		if err := d.mqtt.PublishCloud(cloud); err != nil {
			monitoring.Logf("frame %s: publishing cloud: %v", f.ID, err)
		}
		if err := d.mqtt.PublishScan(scan); err != nil {
			monitoring.Logf("frame %s: publishing scan: %v", f.ID, err)
		}
	}

	if d.frames != nil {
		err := d.frames.InsertFrame(store.FrameRecord{
			FrameID:     f.ID,
			SensorID:    d.cfg.SensorID,
			StampNanos:  f.StampNanos,
			Height:      f.Height,
			Width:       f.RealWidth,
			CloudBytes:  len(cloud.Data),
			ScanSamples: len(scan.Ranges),
			IsDense:     f.IsDense,
			ConvertTime: elapsed.Seconds(),
		})
		if err != nil {
			monitoring.Logf("frame %s: persisting record: %v", f.ID, err)
		}
	}
}

// CompletedFrames reports how many frames the session has converted.
func (d *Driver) CompletedFrames() int64 {
	return d.builder.CompletedFrames()
}
