// Package network receives raw device packets over UDP and hands them to the
// driver's per-packet handlers. It is the acquisition boundary: nothing here
// interprets packet contents beyond routing lidar and imu traffic to their
// handlers.
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/banshee-data/ouster.report/internal/monitoring"
	"github.com/banshee-data/ouster.report/internal/ouster"
)

// Handler consumes one raw packet payload. The payload slice is only valid
// for the duration of the call.
type Handler func(payload []byte)

// UDPListenerConfig configures a UDPListener.
type UDPListenerConfig struct {
	LidarAddr    string // host:port for ranging data
	ImuAddr      string // host:port for inertial data, empty to disable
	RcvBuf       int    // socket receive buffer, 0 for OS default
	ReadTimeout  time.Duration // per-read deadline, 0 for 1s
	LogInterval  time.Duration // stats cadence, 0 for 1m
	Stats        *PacketStats
	LidarHandler Handler
	ImuHandler   Handler
}

// UDPListener owns the lidar and imu sockets for one sensor session.
type UDPListener struct {
	cfg       UDPListenerConfig
	lidarConn *net.UDPConn
	imuConn   *net.UDPConn
	stats     *PacketStats
}

// NewUDPListener binds the configured sockets.
func NewUDPListener(cfg UDPListenerConfig) (*UDPListener, error) {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = time.Second
	}
	if cfg.LogInterval == 0 {
		cfg.LogInterval = time.Minute
	}
	stats := cfg.Stats
	if stats == nil {
		stats = &PacketStats{}
	}

	l := &UDPListener{cfg: cfg, stats: stats}

	conn, err := bindUDP(cfg.LidarAddr, cfg.RcvBuf)
	if err != nil {
		return nil, fmt.Errorf("binding lidar socket %s: %w", cfg.LidarAddr, err)
	}
	l.lidarConn = conn

	if cfg.ImuAddr != "" {
		conn, err := bindUDP(cfg.ImuAddr, cfg.RcvBuf)
		if err != nil {
			l.lidarConn.Close()
			return nil, fmt.Errorf("binding imu socket %s: %w", cfg.ImuAddr, err)
		}
		l.imuConn = conn
	}

	return l, nil
}

func bindUDP(addr string, rcvBuf int) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	if rcvBuf > 0 {
		if err := conn.SetReadBuffer(rcvBuf); err != nil {
			monitoring.Logf("could not set receive buffer to %d on %s: %v", rcvBuf, addr, err)
		}
	}
	return conn, nil
}

// LidarAddr returns the bound lidar socket address (useful when the
// configured port was 0).
func (l *UDPListener) LidarAddr() net.Addr { return l.lidarConn.LocalAddr() }

// ImuAddr returns the bound imu socket address, or nil if imu is disabled.
func (l *UDPListener) ImuAddr() net.Addr {
	if l.imuConn == nil {
		return nil
	}
	return l.imuConn.LocalAddr()
}

// Listen runs the receive loops until ctx is cancelled. Each socket gets its
// own loop; handlers run on the loop goroutine, so a slow handler applies
// backpressure to its own socket only.
func (l *UDPListener) Listen(ctx context.Context) error {
	done := make(chan error, 2)

	go func() { done <- l.readLoop(ctx, l.lidarConn, l.cfg.LidarHandler, ouster.StateLidarData) }()
	if l.imuConn != nil {
		go func() { done <- l.readLoop(ctx, l.imuConn, l.cfg.ImuHandler, ouster.StateImuData) }()
	}

	<-ctx.Done()
	l.Close()

	err := <-done
	if l.imuConn != nil {
		<-done
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readLoop drains one socket. dataState names the kind of traffic for
// diagnostics; state transitions (timeout, error, exit) are logged with the
// ClientState labels.
func (l *UDPListener) readLoop(ctx context.Context, conn *net.UDPConn, handler Handler, dataState ouster.ClientState) error {
	buf := make([]byte, 65536)
	last := ouster.StateUnknown

	for {
		if ctx.Err() != nil {
			monitoring.Logf("udp %s: client state %s", conn.LocalAddr(), ouster.StateExit)
			return ctx.Err()
		}

		if err := conn.SetReadDeadline(time.Now().Add(l.cfg.ReadTimeout)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}
		n, _, err := conn.ReadFromUDP(buf)
		switch {
		case err == nil:
			l.stats.AddPacket(n)
			if handler != nil {
				handler(buf[:n])
			} else {
				l.stats.AddDropped()
			}
			last = dataState
		case os.IsTimeout(err):
			if last != ouster.StateTimeout {
				monitoring.Logf("udp %s: client state %s", conn.LocalAddr(), ouster.StateTimeout)
				last = ouster.StateTimeout
			}
		case errors.Is(err, net.ErrClosed):
			monitoring.Logf("udp %s: client state %s", conn.LocalAddr(), ouster.StateExit)
			return ctx.Err()
		default:
			monitoring.Logf("udp %s: client state %s: %v", conn.LocalAddr(), ouster.StateError, err)
			l.stats.AddDropped()
			last = ouster.StateError
		}

		l.stats.MaybeLog(l.cfg.LogInterval)
	}
}

// Close releases both sockets. Safe to call more than once.
func (l *UDPListener) Close() {
	if l.lidarConn != nil {
		l.lidarConn.Close()
	}
	if l.imuConn != nil {
		l.imuConn.Close()
	}
}
