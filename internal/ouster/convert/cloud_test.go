package convert

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
)

// columnMajorBuffer builds a height x width buffer in device readout order
// where each record carries its own (ring, column) as payload, so the re-tile
// can be verified record by record.
func columnMajorBuffer(height, width int) []ouster.PointRecord {
	points := make([]ouster.PointRecord, 0, height*width)
	for col := 0; col < width; col++ {
		for ring := 0; ring < height; ring++ {
			points = append(points, ouster.PointRecord{
				Ring:   uint8(ring),
				Column: uint8(col),
				Range:  uint32(ring*1000 + col), // distinct per cell
			})
		}
	}
	return points
}

func TestToPointCloudReshapeRoundTrip(t *testing.T) {
	shapes := []struct{ height, width int }{
		{1, 1},
		{4, 7},
		{16, 32},
		{3, 1},
		{1, 9},
	}

	order := ouster.NativeOrder()
	for _, shape := range shapes {
		points := columnMajorBuffer(shape.height, shape.width)
		cloud, err := ToPointCloud(points, uint32(shape.height), uint32(shape.width), 42, "laser_data_frame", true)
		if err != nil {
			t.Fatalf("ToPointCloud(%dx%d): %v", shape.height, shape.width, err)
		}

		if len(cloud.Data) != shape.height*shape.width*ouster.PointRecordSize {
			t.Fatalf("%dx%d: data length %d, want %d",
				shape.height, shape.width, len(cloud.Data), shape.height*shape.width*ouster.PointRecordSize)
		}

		// Reading back row-major at (row, col) must yield the record
		// originally at column-major position (col, row).
		for row := 0; row < shape.height; row++ {
			for col := 0; col < shape.width; col++ {
				off := (row*shape.width + col) * ouster.PointRecordSize
				rec := cloud.Data[off : off+ouster.PointRecordSize]
				gotRing := rec[32]
				gotCol := rec[33]
				gotRange := order.Uint32(rec[28:])
				if int(gotRing) != row || int(gotCol) != col {
					t.Fatalf("%dx%d: cell (%d,%d) decodes to ring=%d column=%d",
						shape.height, shape.width, row, col, gotRing, gotCol)
				}
				if want := uint32(row*1000 + col); gotRange != want {
					t.Fatalf("%dx%d: cell (%d,%d) range = %d, want %d",
						shape.height, shape.width, row, col, gotRange, want)
				}
			}
		}
	}
}

func TestToPointCloudHeader(t *testing.T) {
	points := columnMajorBuffer(2, 3)
	cloud, err := ToPointCloud(points, 2, 3, 987654321, "laser_sensor_frame", true)
	if err != nil {
		t.Fatalf("ToPointCloud: %v", err)
	}

	if cloud.Header.Stamp != 987654321 {
		t.Errorf("stamp = %d, want 987654321", cloud.Header.Stamp)
	}
	if cloud.Header.FrameID != "laser_sensor_frame" {
		t.Errorf("frame_id = %q", cloud.Header.FrameID)
	}
	if cloud.Height != 2 || cloud.Width != 3 {
		t.Errorf("shape = %dx%d, want 2x3", cloud.Height, cloud.Width)
	}
	if cloud.PointStep != ouster.PointRecordSize {
		t.Errorf("point_step = %d, want %d", cloud.PointStep, ouster.PointRecordSize)
	}
	if cloud.RowStep != 3*ouster.PointRecordSize {
		t.Errorf("row_step = %d, want %d", cloud.RowStep, 3*ouster.PointRecordSize)
	}
	if cloud.IsBigendian != ouster.NativeBigEndian() {
		t.Errorf("is_bigendian = %v, probe says %v", cloud.IsBigendian, ouster.NativeBigEndian())
	}
	if !cloud.IsDense {
		t.Error("is_dense not propagated")
	}
}

func TestToPointCloudFieldDescriptors(t *testing.T) {
	cloud, err := ToPointCloud(columnMajorBuffer(1, 1), 1, 1, 0, "f", false)
	if err != nil {
		t.Fatalf("ToPointCloud: %v", err)
	}

	want := []msgs.PointField{
		{Name: "x", Offset: 0, Datatype: msgs.PointFieldFloat32, Count: 1},
		{Name: "y", Offset: 4, Datatype: msgs.PointFieldFloat32, Count: 1},
		{Name: "z", Offset: 8, Datatype: msgs.PointFieldFloat32, Count: 1},
		{Name: "intensity", Offset: 16, Datatype: msgs.PointFieldFloat32, Count: 1},
		{Name: "t", Offset: 20, Datatype: msgs.PointFieldUint32, Count: 1},
		{Name: "reflectivity", Offset: 24, Datatype: msgs.PointFieldUint16, Count: 1},
		{Name: "noise", Offset: 26, Datatype: msgs.PointFieldUint16, Count: 1},
		{Name: "range", Offset: 28, Datatype: msgs.PointFieldUint32, Count: 1},
		{Name: "ring", Offset: 32, Datatype: msgs.PointFieldUint8, Count: 1},
		{Name: "column", Offset: 33, Datatype: msgs.PointFieldUint8, Count: 1},
	}
	if diff := cmp.Diff(want, cloud.Fields); diff != "" {
		t.Errorf("field descriptors mismatch (-want +got):\n%s", diff)
	}
}

func TestToPointCloudOversizedPhysicalBuffer(t *testing.T) {
	// Device double-buffering: physical buffer wider than the usable frame.
	// Width must come from the authoritative parameter, and only the first
	// realWidth columns may be copied.
	const height, realWidth, physicalWidth = 4, 6, 8
	points := columnMajorBuffer(height, physicalWidth)

	cloud, err := ToPointCloud(points, height, realWidth, 0, "f", true)
	if err != nil {
		t.Fatalf("ToPointCloud: %v", err)
	}
	if cloud.Width != realWidth {
		t.Fatalf("width = %d, want authoritative %d", cloud.Width, realWidth)
	}
	if len(cloud.Data) != height*realWidth*ouster.PointRecordSize {
		t.Fatalf("data length %d, want %d", len(cloud.Data), height*realWidth*ouster.PointRecordSize)
	}
	for row := 0; row < height; row++ {
		for col := 0; col < realWidth; col++ {
			off := (row*realWidth + col) * ouster.PointRecordSize
			if got := cloud.Data[off+33]; int(got) != col {
				t.Fatalf("cell (%d,%d) column payload = %d", row, col, got)
			}
		}
	}
}

func TestToPointCloudEmptyFrame(t *testing.T) {
	for _, shape := range []struct{ height, width uint32 }{{0, 100}, {16, 0}, {0, 0}} {
		cloud, err := ToPointCloud(nil, shape.height, shape.width, 7, "laser_data_frame", true)
		if err != nil {
			t.Fatalf("ToPointCloud(%dx%d): %v", shape.height, shape.width, err)
		}
		if len(cloud.Data) != 0 {
			t.Errorf("%dx%d: data length %d, want 0", shape.height, shape.width, len(cloud.Data))
		}
		if cloud.Header.FrameID != "laser_data_frame" || cloud.Header.Stamp != 7 {
			t.Errorf("%dx%d: header not populated: %+v", shape.height, shape.width, cloud.Header)
		}
		if len(cloud.Fields) == 0 {
			t.Errorf("%dx%d: field descriptors missing on empty frame", shape.height, shape.width)
		}
	}
}

func TestToPointCloudShortBuffer(t *testing.T) {
	points := columnMajorBuffer(4, 4) // 16 records
	_, err := ToPointCloud(points, 4, 8, 0, "f", true)
	if err == nil {
		t.Fatal("expected error for buffer shorter than declared shape")
	}
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("error = %v, want ErrPrecondition", err)
	}
}
