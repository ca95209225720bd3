package ouster

// Metadata is the device configuration for one driver session: where the
// sensor and the receiving host live on the network, and the receiver array
// geometry. Immutable once loaded.
type Metadata struct {
	ComputerIP string // address the device sends to
	LidarIP    string // device address
	ImuPort    int
	LidarPort  int
	NumLasers  int // firing rings; the logical height of every frame
	Vendor     string
	Model      string
}
