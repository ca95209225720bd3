package store

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *FrameStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndQueryFrames(t *testing.T) {
	s := openTestStore(t)

	ids := make([]string, 3)
	for i := range ids {
		ids[i] = uuid.New().String()
		err := s.InsertFrame(FrameRecord{
			FrameID:     ids[i],
			SensorID:    "os1-16",
			StampNanos:  int64(1000 * (i + 1)),
			Height:      16,
			Width:       2000,
			CloudBytes:  16 * 2000 * 48,
			ScanSamples: 2000,
			IsDense:     i != 1,
			ConvertTime: 0.002,
		})
		require.NoError(t, err)
	}

	count, err := s.FrameCount("os1-16")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	records, err := s.RecentFrames("os1-16", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest stamp first.
	assert.Equal(t, ids[2], records[0].FrameID)
	assert.Equal(t, ids[1], records[1].FrameID)
	assert.Equal(t, int64(3000), records[0].StampNanos)
	assert.True(t, records[0].IsDense)
	assert.False(t, records[1].IsDense)
	assert.Equal(t, uint32(16), records[0].Height)
	assert.Equal(t, uint32(2000), records[0].Width)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestDuplicateFrameIDRejected(t *testing.T) {
	s := openTestStore(t)

	id := uuid.New().String()
	require.NoError(t, s.InsertFrame(FrameRecord{FrameID: id, SensorID: "a"}))
	err := s.InsertFrame(FrameRecord{FrameID: id, SensorID: "a"})
	assert.Error(t, err, "duplicate frame_id must violate the unique constraint")
}

func TestRecentFramesScopedBySensor(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		sensor := fmt.Sprintf("sensor-%d", i%2)
		require.NoError(t, s.InsertFrame(FrameRecord{
			FrameID:    uuid.New().String(),
			SensorID:   sensor,
			StampNanos: int64(i),
		}))
	}

	records, err := s.RecentFrames("sensor-0", 10)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "sensor-0", r.SensorID)
	}

	records, err = s.RecentFrames("absent", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
