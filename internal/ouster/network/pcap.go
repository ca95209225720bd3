//go:build pcap
// +build pcap

package network

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/banshee-data/ouster.report/internal/monitoring"
)

// ReplayPCAPFile feeds recorded device traffic through the same handlers the
// live listener uses. Packets are routed by destination port: lidarPort
// payloads go to lidarHandler, imuPort payloads to imuHandler. Only available
// when building with the 'pcap' tag.
func ReplayPCAPFile(ctx context.Context, pcapFile string, lidarPort, imuPort int, lidarHandler, imuHandler Handler, stats *PacketStats) error {
	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return fmt.Errorf("opening pcap file %s: %w", pcapFile, err)
	}
	defer handle.Close()

	filterStr := fmt.Sprintf("udp port %d or udp port %d", lidarPort, imuPort)
	if err := handle.SetBPFFilter(filterStr); err != nil {
		return fmt.Errorf("setting BPF filter %q: %w", filterStr, err)
	}

	if stats == nil {
		stats = &PacketStats{}
	}

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	packetCount := 0
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("pcap replay cancelled after %d packets", packetCount)
			return ctx.Err()
		case packet := <-source.Packets():
			if packet == nil {
				monitoring.Logf("pcap replay complete: %d packets in %v", packetCount, time.Since(start))
				return nil
			}
			packetCount++

			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue
			}
			udp, ok := udpLayer.(*layers.UDP)
			if !ok || len(udp.Payload) == 0 {
				continue
			}

			stats.AddPacket(len(udp.Payload))
			switch int(udp.DstPort) {
			case lidarPort:
				if lidarHandler != nil {
					lidarHandler(udp.Payload)
				}
			case imuPort:
				if imuHandler != nil {
					imuHandler(udp.Payload)
				}
			default:
				stats.AddDropped()
			}
		}
	}
}
