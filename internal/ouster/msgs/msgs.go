// Package msgs defines the message-shaped artifacts the conversion layer
// produces for the publishing boundary: a structured point cloud, a planar
// laser scan, a stamped rigid transform, an inertial reading, and device
// metadata. The shapes mirror the sensor_msgs / geometry_msgs conventions the
// downstream pipeline speaks, expressed as plain Go structs.
package msgs

// Header carries the frame binding for a stamped message.
type Header struct {
	Stamp   int64  `json:"stamp"` // nanoseconds
	FrameID string `json:"frame_id"`
}

// PointField primitive datatype codes, matching the sensor_msgs/PointField
// wire values the downstream pipeline expects.
const (
	PointFieldUint8   uint8 = 2
	PointFieldUint16  uint8 = 4
	PointFieldUint32  uint8 = 6
	PointFieldFloat32 uint8 = 7
)

// PointField describes one member of the packed point layout in a PointCloud.
type PointField struct {
	Name     string `json:"name"`
	Offset   uint32 `json:"offset"`
	Datatype uint8  `json:"datatype"`
	Count    uint32 `json:"count"`
}

// PointCloud is a 2D structured point buffer: Height rows (firing rings) by
// Width columns (azimuth steps), row-major, PointStep bytes per point.
type PointCloud struct {
	Header      Header       `json:"header"`
	Height      uint32       `json:"height"`
	Width       uint32       `json:"width"`
	Fields      []PointField `json:"fields"`
	IsBigendian bool         `json:"is_bigendian"`
	PointStep   uint32       `json:"point_step"`
	RowStep     uint32       `json:"row_step"`
	Data        []byte       `json:"data"`
	IsDense     bool         `json:"is_dense"`
}

// LaserScan is a single-ring planar range scan. Ranges are meters;
// intensities are raw device units. The two slices are index-aligned and
// their length is the number of samples found for the selected ring, which
// is not guaranteed to equal the frame width.
type LaserScan struct {
	Header         Header    `json:"header"`
	AngleMin       float64   `json:"angle_min"`       // radians
	AngleMax       float64   `json:"angle_max"`       // radians
	AngleIncrement float64   `json:"angle_increment"` // radians
	TimeIncrement  float64   `json:"time_increment"`  // seconds
	ScanTime       float64   `json:"scan_time"`       // seconds
	RangeMin       float64   `json:"range_min"`       // meters
	RangeMax       float64   `json:"range_max"`       // meters
	Ranges         []float64 `json:"ranges"`
	Intensities    []float64 `json:"intensities"`
}

// Vector3 is a 3D translation in meters.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a rotation in (x, y, z, w) order.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Transform is a rigid transform: rotation then translation.
type Transform struct {
	Translation Vector3    `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
}

// TransformStamped binds a Transform to a parent frame (Header.FrameID), a
// child frame, and a timestamp.
type TransformStamped struct {
	Header       Header    `json:"header"`
	ChildFrameID string    `json:"child_frame_id"`
	Transform    Transform `json:"transform"`
}

// Imu is an inertial reading. A covariance diagonal of -1 marks the estimate
// as unavailable, per the sensor_msgs convention.
type Imu struct {
	Header                       Header     `json:"header"`
	Orientation                  Quaternion `json:"orientation"`
	OrientationCovariance        [9]float64 `json:"orientation_covariance"`
	AngularVelocity              Vector3    `json:"angular_velocity"` // rad/s
	AngularVelocityCovariance    [9]float64 `json:"angular_velocity_covariance"`
	LinearAcceleration           Vector3    `json:"linear_acceleration"` // m/s^2
	LinearAccelerationCovariance [9]float64 `json:"linear_acceleration_covariance"`
}

// Metadata is the published form of the device session configuration.
type Metadata struct {
	ComputerIP string `json:"computer_ip"`
	LidarIP    string `json:"lidar_ip"`
	ImuPort    int    `json:"imu_port"`
	LidarPort  int    `json:"lidar_port"`
}
