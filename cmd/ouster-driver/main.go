// Command ouster-driver runs one LiDAR conversion session: it assembles
// frames from the configured source, converts them into publishable
// artifacts, and streams those to MQTT and the frame store.
//
// Sources:
//
//	live UDP     (default)  lidar/imu sockets per the config
//	-synthetic              generated test pattern, no sensor required
//	-pcap FILE              recorded traffic replay (build with -tags pcap)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/ouster.report/internal/config"
	"github.com/banshee-data/ouster.report/internal/ouster/driver"
	"github.com/banshee-data/ouster.report/internal/version"
	"github.com/banshee-data/ouster.report/internal/ouster/network"
	"github.com/banshee-data/ouster.report/internal/ouster/publish"
	"github.com/banshee-data/ouster.report/internal/ouster/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to driver config JSON (defaults apply if empty)")
		synthetic  = flag.Bool("synthetic", false, "generate a synthetic test pattern instead of listening")
		pcapFile   = flag.String("pcap", "", "replay device traffic from a pcap file (requires -tags pcap build)")
		mqttBroker = flag.String("mqtt", "", "MQTT broker URL, overrides config (empty keeps config value)")
		dbPath     = flag.String("db", "", "frame store sqlite path, overrides config")
		showVer    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("ouster-driver %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if err := run(*configPath, *synthetic, *pcapFile, *mqttBroker, *dbPath); err != nil {
		log.Fatalf("ouster-driver: %v", err)
	}
}

func run(configPath string, synthetic bool, pcapFile, mqttBroker, dbPath string) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if mqttBroker != "" {
		cfg.MQTTBroker = mqttBroker
	}
	if dbPath != "" {
		cfg.FrameDBPath = dbPath
	}

	opts := driver.Options{}

	if cfg.MQTTBroker != "" {
		mq, err := publish.NewMQTTPublisher(publish.MQTTConfig{
			Broker:      cfg.MQTTBroker,
			ClientID:    "ouster-driver-" + cfg.SensorID,
			TopicPrefix: cfg.TopicPrefix,
		})
		if err != nil {
			return err
		}
		defer mq.Close()
		opts.MQTT = mq
		log.Printf("publishing to MQTT broker %s under %s/", cfg.MQTTBroker, cfg.TopicPrefix)
	}

	if cfg.FrameDBPath != "" {
		frames, err := store.Open(cfg.FrameDBPath)
		if err != nil {
			return err
		}
		defer frames.Close()
		opts.FrameStore = frames
		log.Printf("frame records persisted to %s", cfg.FrameDBPath)
	}

	d, err := driver.New(cfg, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.PublishSession(time.Now().UnixNano()); err != nil {
		return err
	}
	log.Printf("session started: sensor %s, %d lasers x %d columns",
		cfg.SensorID, cfg.NumLasers, cfg.RealWidth)

	switch {
	case synthetic:
		log.Printf("running synthetic source")
		src := driver.NewSyntheticSource(cfg.NumLasers, cfg.RealWidth)
		if err := src.Run(ctx, d); err != nil && ctx.Err() == nil {
			return err
		}

	case pcapFile != "":
		log.Printf("replaying %s", pcapFile)
		stats := &network.PacketStats{}
		err := network.ReplayPCAPFile(ctx, pcapFile, cfg.LidarPort, cfg.ImuPort,
			lidarPacketSink(stats), d.HandleImuPacket, stats)
		if err != nil && ctx.Err() == nil {
			return err
		}

	default:
		stats := &network.PacketStats{}
		listener, err := network.NewUDPListener(network.UDPListenerConfig{
			LidarAddr:    fmt.Sprintf("%s:%d", cfg.ComputerIP, cfg.LidarPort),
			ImuAddr:      fmt.Sprintf("%s:%d", cfg.ComputerIP, cfg.ImuPort),
			Stats:        stats,
			LidarHandler: lidarPacketSink(stats),
			ImuHandler:   d.HandleImuPacket,
		})
		if err != nil {
			return err
		}
		log.Printf("listening for lidar on %s, imu on %s", listener.LidarAddr(), listener.ImuAddr())
		if err := listener.Listen(ctx); err != nil {
			return err
		}
	}

	log.Printf("session ended: %d frames converted", d.CompletedFrames())
	return nil
}

// lidarPacketSink accepts raw ranging packets. Packet-to-column decoding is
// vendor firmware specific and lives in the acquisition integration that
// embeds this driver and calls Driver.AddColumn; the shipped binary counts
// the traffic so live links can still be verified end to end.
func lidarPacketSink(stats *network.PacketStats) network.Handler {
	return func(_ []byte) {
		stats.MaybeLog(30 * time.Second)
	}
}
