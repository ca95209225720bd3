package ouster

import "testing"

func TestClientStateString(t *testing.T) {
	cases := []struct {
		state ClientState
		want  string
	}{
		{StateTimeout, "timeout"},
		{StateError, "error"},
		{StateExit, "exit"},
		{StateImuData, "imu data"},
		{StateLidarData, "lidar data"},
		{StateUnknown, "unknown"},
	}
	for _, tc := range cases {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("ClientState(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestClientStateStringTotal(t *testing.T) {
	// Values outside the defined set must fall back, never panic or be empty.
	for _, s := range []ClientState{-1, 99, 1000} {
		if got := s.String(); got != "unknown" {
			t.Errorf("ClientState(%d).String() = %q, want \"unknown\"", s, got)
		}
	}
	for s := StateTimeout; s <= StateLidarData; s++ {
		if got := s.String(); got == "" || got == "unknown" {
			t.Errorf("defined state %d mapped to %q", s, got)
		}
	}
}
