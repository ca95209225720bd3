package ouster

// FieldType identifies the primitive type of one serialized record member.
type FieldType uint8

const (
	FieldUint8 FieldType = iota
	FieldUint16
	FieldUint32
	FieldFloat32
)

// RecordField describes one member of the serialized PointRecord: its wire
// name, byte offset within the record, primitive type, and per-point count.
type RecordField struct {
	Name   string
	Offset uint32
	Type   FieldType
	Count  uint32
}

// PointRecordLayout enumerates the PointRecord members in declaration order.
// The conversion layer attaches this as the field descriptor list on the
// structured point-cloud output, so the names and offsets here are part of
// the wire contract.
func PointRecordLayout() []RecordField {
	return []RecordField{
		{Name: "x", Offset: offX, Type: FieldFloat32, Count: 1},
		{Name: "y", Offset: offY, Type: FieldFloat32, Count: 1},
		{Name: "z", Offset: offZ, Type: FieldFloat32, Count: 1},
		{Name: "intensity", Offset: offIntensity, Type: FieldFloat32, Count: 1},
		{Name: "t", Offset: offT, Type: FieldUint32, Count: 1},
		{Name: "reflectivity", Offset: offReflectivity, Type: FieldUint16, Count: 1},
		{Name: "noise", Offset: offNoise, Type: FieldUint16, Count: 1},
		{Name: "range", Offset: offRange, Type: FieldUint32, Count: 1},
		{Name: "ring", Offset: offRing, Type: FieldUint8, Count: 1},
		{Name: "column", Offset: offColumn, Type: FieldUint8, Count: 1},
	}
}
