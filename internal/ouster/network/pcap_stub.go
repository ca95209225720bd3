//go:build !pcap
// +build !pcap

package network

import (
	"context"
	"fmt"
)

// ReplayPCAPFile is unavailable without the 'pcap' build tag (libpcap is a
// cgo dependency not wanted in default builds).
func ReplayPCAPFile(ctx context.Context, pcapFile string, lidarPort, imuPort int, lidarHandler, imuHandler Handler, stats *PacketStats) error {
	return fmt.Errorf("pcap replay not available: rebuild with -tags pcap")
}
