// Package ouster contains the fixed-layout record types produced by an
// Ouster-class range-imaging LiDAR, the device metadata that describes a
// sensor session, and the small amount of process-wide state (native byte
// order) the conversion layer needs to stamp its output.
//
// The record layouts are load-bearing: downstream vector-math consumers read
// the serialized point buffer at fixed byte offsets, so every field offset and
// the total record size are spelled out here rather than left to the compiler.
package ouster

import (
	"encoding/binary"
	"math"
)

// PointRecord byte layout. The record is padded to a 16-byte-aligned 48-byte
// stride so the serialized buffer matches what SIMD-friendly consumers expect.
// Offsets are within one serialized record.
const (
	PointRecordSize = 48 // total serialized size including padding

	offX            = 0  // float32, meters
	offY            = 4  // float32, meters
	offZ            = 8  // float32, meters
	offIntensity    = 16 // float32 (12..15 is alignment padding)
	offT            = 20 // uint32, nanoseconds since frame start
	offReflectivity = 24 // uint16
	offNoise        = 26 // uint16, ambient noise
	offRange        = 28 // uint32, millimeters
	offRing         = 32 // uint8, firing element
	offColumn       = 33 // uint8, azimuth step (34..47 is tail padding)
)

// PointRecord is a single LiDAR return. Instances are immutable once
// constructed; a frame's worth of them lives in one flat buffer owned by the
// acquisition layer until handed to the cloud converter.
type PointRecord struct {
	X, Y, Z      float32 // sensor-frame position, meters
	Intensity    float32
	T            uint32 // nanoseconds since frame start
	Reflectivity uint16
	Noise        uint16 // ambient noise reading
	Range        uint32 // millimeters
	Ring         uint8  // firing element, [0, NumLasers)
	Column       uint8  // azimuth step, [0, row width)
}

// NewPointRecord builds a PointRecord from a decoded return. Argument order
// mirrors the device readout: position, intensity, capture time, then the
// secondary channels.
func NewPointRecord(
	x, y, z, intensity float32,
	t uint32, reflectivity uint16, ring, column uint8,
	noise uint16, rng uint32,
) PointRecord {
	return PointRecord{
		X: x, Y: y, Z: z,
		Intensity:    intensity,
		T:            t,
		Reflectivity: reflectivity,
		Noise:        noise,
		Range:        rng,
		Ring:         ring,
		Column:       column,
	}
}

// PutRecord serializes p into buf using the byte order bo. buf must be at
// least PointRecordSize bytes; padding bytes are written as zero.
func (p *PointRecord) PutRecord(buf []byte, bo binary.ByteOrder) {
	_ = buf[PointRecordSize-1]
	for i := 0; i < PointRecordSize; i++ {
		buf[i] = 0
	}
	bo.PutUint32(buf[offX:], math.Float32bits(p.X))
	bo.PutUint32(buf[offY:], math.Float32bits(p.Y))
	bo.PutUint32(buf[offZ:], math.Float32bits(p.Z))
	bo.PutUint32(buf[offIntensity:], math.Float32bits(p.Intensity))
	bo.PutUint32(buf[offT:], p.T)
	bo.PutUint16(buf[offReflectivity:], p.Reflectivity)
	bo.PutUint16(buf[offNoise:], p.Noise)
	bo.PutUint32(buf[offRange:], p.Range)
	buf[offRing] = p.Ring
	buf[offColumn] = p.Column
}

// ScanSample is a LiDAR return reduced to the fields a planar laser scan
// needs. Samples share the per-frame, column-major buffer convention of
// PointRecord.
type ScanSample struct {
	Range     uint32  // millimeters
	Intensity float32 // raw device units
	Ring      uint8
	T         uint32 // nanoseconds since frame start
}

// ImagePixel is a return reduced to an image-channel record. It exists so the
// image pipeline can share the device decode path; this package only provides
// construction.
type ImagePixel struct {
	Intensity    float32
	Reflectivity uint16
	Noise        uint16
	Range        uint32 // millimeters
	Ring         uint8
	Column       uint8
}

// NewImagePixel builds an ImagePixel from a decoded return. The positional
// and timing arguments are accepted for signature parity with NewPointRecord
// but are not part of the image record.
func NewImagePixel(
	x, y, z, intensity float32,
	t uint32, reflectivity uint16, ring, column uint8,
	noise uint16, rng uint32,
) ImagePixel {
	_, _, _, _ = x, y, z, t
	return ImagePixel{
		Intensity:    intensity,
		Reflectivity: reflectivity,
		Noise:        noise,
		Range:        rng,
		Ring:         ring,
		Column:       column,
	}
}
