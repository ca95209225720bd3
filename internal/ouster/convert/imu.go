package convert

import (
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
)

// Covariance values stamped on the stub inertial reading. Orientation is
// marked unknown (-1 diagonal); the acceleration and angular-velocity
// variances are the device datasheet figures.
const (
	covarianceUnknown       = -1.0
	accelVariance           = 0.01 // (m/s^2)^2
	angularVelocityVariance = 6e-4 // (rad/s)^2
)

// ImuDecoder turns a raw inertial packet into an Imu message. The driver
// holds one decoder for the life of a session; swapping in a real
// implementation must not require touching call sites.
type ImuDecoder interface {
	Decode(buf []byte, frameID string, stampNanos int64) msgs.Imu
}

// StubImuDecoder ignores the packet contents and always produces the same
// non-informative reading: identity orientation, zero motion, orientation
// covariance marked unknown. Consumers must not treat its output as
// sensor-derived; it exists so the publishing path can be exercised before
// the packet decode lands.
type StubImuDecoder struct{}

// Decode implements ImuDecoder.
func (StubImuDecoder) Decode(buf []byte, frameID string, stampNanos int64) msgs.Imu {
	_ = buf // TODO: decode gyro/accel words once the packet layout is confirmed

	m := msgs.Imu{
		Header:      msgs.Header{Stamp: 0, FrameID: frameID},
		Orientation: msgs.Quaternion{X: 0, Y: 0, Z: 0, W: 1},
	}
	for i := 0; i < 9; i++ {
		m.OrientationCovariance[i] = covarianceUnknown
		m.AngularVelocityCovariance[i] = 0
		m.LinearAccelerationCovariance[i] = 0
	}
	for i := 0; i < 9; i += 4 {
		m.LinearAccelerationCovariance[i] = accelVariance
		m.AngularVelocityCovariance[i] = angularVelocityVariance
	}
	return m
}
