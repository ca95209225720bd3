package convert

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
	"github.com/banshee-data/ouster.report/internal/units"
)

// ToMetadataMsg copies the device session configuration into its published
// form. No validation happens here: the driver loads Metadata from the device
// and is responsible for its sanity.
func ToMetadataMsg(mdata ouster.Metadata) msgs.Metadata {
	return msgs.Metadata{
		ComputerIP: mdata.ComputerIP,
		LidarIP:    mdata.LidarIP,
		ImuPort:    mdata.ImuPort,
		LidarPort:  mdata.LidarPort,
	}
}

// CalibrationToTransform converts a 16-element row-major 4x4 calibration
// matrix into a stamped rigid transform from frame to childFrame.
//
// The translation column (indices 3, 7, 11) is in millimeters and is scaled
// to meters; the rotation is read from the upper-left 3x3 block and published
// as a unit quaternion. Anything other than exactly 16 elements is a caller
// bug and fails with ErrPrecondition.
func CalibrationToTransform(
	calib []float64,
	frame, childFrame string,
	stampNanos int64,
) (msgs.TransformStamped, error) {
	if len(calib) != 16 {
		return msgs.TransformStamped{}, fmt.Errorf(
			"%w: calibration matrix has %d elements, want 16", ErrPrecondition, len(calib))
	}

	rot := mat.NewDense(3, 3, []float64{
		calib[0], calib[1], calib[2],
		calib[4], calib[5], calib[6],
		calib[8], calib[9], calib[10],
	})

	return msgs.TransformStamped{
		Header:       msgs.Header{Stamp: stampNanos, FrameID: frame},
		ChildFrameID: childFrame,
		Transform: msgs.Transform{
			Translation: msgs.Vector3{
				X: units.MillimetersToMeters(calib[3]),
				Y: units.MillimetersToMeters(calib[7]),
				Z: units.MillimetersToMeters(calib[11]),
			},
			Rotation: rotationQuaternion(rot),
		},
	}, nil
}

// rotationQuaternion converts a 3x3 rotation matrix to a unit quaternion
// using Shepperd's method: pick the largest of the four squared components
// from the trace to keep the division well conditioned.
func rotationQuaternion(r *mat.Dense) msgs.Quaternion {
	m00, m01, m02 := r.At(0, 0), r.At(0, 1), r.At(0, 2)
	m10, m11, m12 := r.At(1, 0), r.At(1, 1), r.At(1, 2)
	m20, m21, m22 := r.At(2, 0), r.At(2, 1), r.At(2, 2)

	var q quat.Number
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = quat.Number{
			Real: s / 4,
			Imag: (m21 - m12) / s,
			Jmag: (m02 - m20) / s,
			Kmag: (m10 - m01) / s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{
			Real: (m21 - m12) / s,
			Imag: s / 4,
			Jmag: (m01 + m10) / s,
			Kmag: (m02 + m20) / s,
		}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{
			Real: (m02 - m20) / s,
			Imag: (m01 + m10) / s,
			Jmag: s / 4,
			Kmag: (m12 + m21) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{
			Real: (m10 - m01) / s,
			Imag: (m02 + m20) / s,
			Jmag: (m12 + m21) / s,
			Kmag: s / 4,
		}
	}

	// Calibration matrices arrive from device firmware and may carry small
	// scale error; normalize so the published rotation is always unit.
	if a := quat.Abs(q); a > 0 {
		q = quat.Scale(1/a, q)
	}
	return msgs.Quaternion{X: q.Imag, Y: q.Jmag, Z: q.Kmag, W: q.Real}
}
