package ouster

import (
	"encoding/binary"
	"sync"
)

var (
	endianOnce  sync.Once
	nativeBig   bool
	nativeOrder binary.ByteOrder
)

// probeEndianness writes a known 16-bit pattern through the platform's native
// byte order and inspects the first byte. Runs exactly once per process.
func probeEndianness() {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 0x0001)
	nativeBig = buf[0] != 0x01
	if nativeBig {
		nativeOrder = binary.BigEndian
	} else {
		nativeOrder = binary.LittleEndian
	}
}

// NativeBigEndian reports whether the machine stores multi-byte integers
// big-endian. The result is computed on first use and never changes, so
// unsynchronized concurrent reads after that are safe.
func NativeBigEndian() bool {
	endianOnce.Do(probeEndianness)
	return nativeBig
}

// NativeOrder returns the binary.ByteOrder matching the machine, for callers
// that serialize records in native order and tag the output via
// NativeBigEndian.
func NativeOrder() binary.ByteOrder {
	endianOnce.Do(probeEndianness)
	return nativeOrder
}
