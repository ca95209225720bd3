package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
)

func TestToMetadataMsg(t *testing.T) {
	mdata := ouster.Metadata{
		ComputerIP: "10.5.5.1",
		LidarIP:    "10.5.5.87",
		ImuPort:    7503,
		LidarPort:  7502,
		NumLasers:  16,
		Vendor:     "Ouster",
		Model:      "OS1-16",
	}

	want := msgs.Metadata{
		ComputerIP: "10.5.5.1",
		LidarIP:    "10.5.5.87",
		ImuPort:    7503,
		LidarPort:  7502,
	}
	if diff := cmp.Diff(want, ToMetadataMsg(mdata)); diff != "" {
		t.Errorf("ToMetadataMsg mismatch (-want +got):\n%s", diff)
	}
}

func TestCalibrationToTransformTranslationScale(t *testing.T) {
	calib := []float64{
		1, 0, 0, 3000,
		0, 1, 0, 6000,
		0, 0, 1, 9000,
		0, 0, 0, 1,
	}

	tf, err := CalibrationToTransform(calib, "lidar_mount", "laser_sensor_frame", 123)
	require.NoError(t, err)

	assert.Equal(t, 3.0, tf.Transform.Translation.X)
	assert.Equal(t, 6.0, tf.Transform.Translation.Y)
	assert.Equal(t, 9.0, tf.Transform.Translation.Z)
	assert.Equal(t, "lidar_mount", tf.Header.FrameID)
	assert.Equal(t, "laser_sensor_frame", tf.ChildFrameID)
	assert.Equal(t, int64(123), tf.Header.Stamp)
}

func TestCalibrationToTransformIdentityRotation(t *testing.T) {
	calib := []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}

	tf, err := CalibrationToTransform(calib, "a", "b", 0)
	require.NoError(t, err)

	q := tf.Transform.Rotation
	assert.InDelta(t, 1.0, q.W, 1e-12)
	assert.InDelta(t, 0.0, q.X, 1e-12)
	assert.InDelta(t, 0.0, q.Y, 1e-12)
	assert.InDelta(t, 0.0, q.Z, 1e-12)
}

func TestCalibrationToTransformKnownRotations(t *testing.T) {
	s2 := math.Sqrt(2) / 2
	cases := []struct {
		name  string
		rot   [9]float64 // row-major 3x3
		wantQ msgs.Quaternion
	}{
		{
			// 90 degrees about Z.
			name:  "z90",
			rot:   [9]float64{0, -1, 0, 1, 0, 0, 0, 0, 1},
			wantQ: msgs.Quaternion{X: 0, Y: 0, Z: s2, W: s2},
		},
		{
			// 180 degrees about X; trace is -1 so the non-trace branch runs.
			name:  "x180",
			rot:   [9]float64{1, 0, 0, 0, -1, 0, 0, 0, -1},
			wantQ: msgs.Quaternion{X: 1, Y: 0, Z: 0, W: 0},
		},
		{
			// 180 degrees about Y.
			name:  "y180",
			rot:   [9]float64{-1, 0, 0, 0, 1, 0, 0, 0, -1},
			wantQ: msgs.Quaternion{X: 0, Y: 1, Z: 0, W: 0},
		},
		{
			// 180 degrees about Z.
			name:  "z180",
			rot:   [9]float64{-1, 0, 0, 0, -1, 0, 0, 0, 1},
			wantQ: msgs.Quaternion{X: 0, Y: 0, Z: 1, W: 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calib := []float64{
				tc.rot[0], tc.rot[1], tc.rot[2], 0,
				tc.rot[3], tc.rot[4], tc.rot[5], 0,
				tc.rot[6], tc.rot[7], tc.rot[8], 0,
				0, 0, 0, 1,
			}
			tf, err := CalibrationToTransform(calib, "a", "b", 0)
			require.NoError(t, err)

			q := tf.Transform.Rotation
			// q and -q encode the same rotation; normalize sign on the
			// largest component before comparing.
			if q.W*tc.wantQ.W+q.X*tc.wantQ.X+q.Y*tc.wantQ.Y+q.Z*tc.wantQ.Z < 0 {
				q = msgs.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
			}
			assert.InDelta(t, tc.wantQ.X, q.X, 1e-12)
			assert.InDelta(t, tc.wantQ.Y, q.Y, 1e-12)
			assert.InDelta(t, tc.wantQ.Z, q.Z, 1e-12)
			assert.InDelta(t, tc.wantQ.W, q.W, 1e-12)
		})
	}
}

func TestCalibrationToTransformUnitNorm(t *testing.T) {
	// A slightly scaled rotation block must still publish a unit quaternion.
	scale := 1.001
	calib := []float64{
		scale, 0, 0, 0,
		0, scale, 0, 0,
		0, 0, scale, 0,
		0, 0, 0, 1,
	}
	tf, err := CalibrationToTransform(calib, "a", "b", 0)
	require.NoError(t, err)

	q := tf.Transform.Rotation
	norm := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	assert.InDelta(t, 1.0, norm, 1e-12)
}

func TestCalibrationToTransformWrongSize(t *testing.T) {
	for _, n := range []int{0, 9, 12, 15, 17} {
		_, err := CalibrationToTransform(make([]float64, n), "a", "b", 0)
		require.Error(t, err, "len %d", n)
		assert.True(t, errors.Is(err, ErrPrecondition), "len %d: %v", n, err)
	}
}
