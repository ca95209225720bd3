// Package convert turns raw per-frame device buffers into the message-shaped
// artifacts in msgs. Every conversion is a pure function over its inputs:
// output buffers are freshly allocated and caller data is never mutated, so
// independent frames may be converted concurrently.
package convert

import (
	"fmt"

	"github.com/banshee-data/ouster.report/internal/ouster"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
)

// fieldDatatype maps a record layout primitive to its PointField wire code.
func fieldDatatype(t ouster.FieldType) uint8 {
	switch t {
	case ouster.FieldUint8:
		return msgs.PointFieldUint8
	case ouster.FieldUint16:
		return msgs.PointFieldUint16
	case ouster.FieldUint32:
		return msgs.PointFieldUint32
	case ouster.FieldFloat32:
		return msgs.PointFieldFloat32
	default:
		return msgs.PointFieldUint8
	}
}

// cloudFields builds the PointField descriptor list from the PointRecord
// layout, in declaration order.
func cloudFields() []msgs.PointField {
	layout := ouster.PointRecordLayout()
	fields := make([]msgs.PointField, 0, len(layout))
	for _, f := range layout {
		fields = append(fields, msgs.PointField{
			Name:     f.Name,
			Offset:   f.Offset,
			Datatype: fieldDatatype(f.Type),
			Count:    f.Count,
		})
	}
	return fields
}

// ToPointCloud re-tiles a column-major frame buffer of point records into a
// row-major structured point cloud.
//
// The input buffer is the device's native readout order: all rings for
// azimuth column 0, then all rings for column 1, and so on, i.e. the record
// for (ring j, column i) lives at index i*height + j. The physical buffer may
// be wider than the usable frame because of device double-buffering, which is
// why realWidth is a separate, authoritative parameter: the output width is
// always realWidth, never a width inferred from len(points)/height.
//
// The output buffer is standard row-major: the record for (ring j, column i)
// lands at byte offset (j*realWidth + i) * PointRecordSize, serialized in
// native byte order and tagged via the endianness probe.
//
// A buffer shorter than height*realWidth records is a caller bug and fails
// with ErrPrecondition before any copying. height*realWidth == 0 is not an
// error: the result carries an empty data buffer under a populated header.
func ToPointCloud(
	points []ouster.PointRecord,
	height, realWidth uint32,
	stampNanos int64,
	frameID string,
	isDense bool,
) (msgs.PointCloud, error) {
	cloud := msgs.PointCloud{
		Header:      msgs.Header{Stamp: stampNanos, FrameID: frameID},
		Height:      height,
		Width:       realWidth,
		Fields:      cloudFields(),
		IsBigendian: ouster.NativeBigEndian(),
		PointStep:   ouster.PointRecordSize,
		RowStep:     ouster.PointRecordSize * realWidth,
		IsDense:     isDense,
	}

	need := int(height) * int(realWidth)
	if need == 0 {
		cloud.Data = []byte{}
		return cloud, nil
	}
	if len(points) < need {
		return msgs.PointCloud{}, fmt.Errorf(
			"%w: point buffer holds %d records, frame shape %dx%d needs %d",
			ErrPrecondition, len(points), height, realWidth, need)
	}

	order := ouster.NativeOrder()
	data := make([]byte, need*ouster.PointRecordSize)
	for i := uint32(0); i < realWidth; i++ {
		for j := uint32(0); j < height; j++ {
			src := &points[i*height+j]
			dst := (j*realWidth + i) * ouster.PointRecordSize
			src.PutRecord(data[dst:dst+ouster.PointRecordSize], order)
		}
	}
	cloud.Data = data

	return cloud, nil
}
