package ouster

// ClientState is the state reported by the device link after one poll:
// which kind of data arrived, or how the poll ended without data.
type ClientState int

const (
	StateUnknown ClientState = iota
	StateTimeout
	StateError
	StateExit
	StateImuData
	StateLidarData
)

// String returns the diagnostic label for the state. Unrecognized values map
// to "unknown" rather than failing; these labels feed logs only.
func (s ClientState) String() string {
	switch s {
	case StateTimeout:
		return "timeout"
	case StateError:
		return "error"
	case StateExit:
		return "exit"
	case StateImuData:
		return "imu data"
	case StateLidarData:
		return "lidar data"
	default:
		return "unknown"
	}
}
