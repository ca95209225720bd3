// Package publish is the boundary between the conversion layer and the
// message bus. It fans completed frame artifacts out to in-process
// subscribers and, optionally, to an MQTT broker. Serialization and bus
// policy live here so the conversion layer stays pure.
package publish

import (
	"sync"

	"github.com/banshee-data/ouster.report/internal/monitoring"
	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
)

// FrameArtifacts bundles everything the driver produced for one frame.
type FrameArtifacts struct {
	FrameID    string
	StampNanos int64
	Cloud      msgs.PointCloud
	Scan       msgs.LaserScan
}

// Publisher fans frame artifacts out to subscribers. A slow subscriber has
// frames dropped for it rather than stalling the frame path.
type Publisher struct {
	mu      sync.Mutex
	subs    map[int]chan *FrameArtifacts
	nextID  int
	depth   int
	dropped int64
}

// NewPublisher creates a Publisher whose subscriber channels buffer depth
// frames (minimum 1).
func NewPublisher(depth int) *Publisher {
	if depth < 1 {
		depth = 1
	}
	return &Publisher{
		subs:  make(map[int]chan *FrameArtifacts),
		depth: depth,
	}
}

// Subscribe registers a consumer. The returned cancel function unregisters it
// and closes the channel.
func (p *Publisher) Subscribe() (<-chan *FrameArtifacts, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan *FrameArtifacts, p.depth)
	p.subs[id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if ch, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers artifacts to every subscriber, dropping per-subscriber
// when a channel is full.
func (p *Publisher) Publish(fa *FrameArtifacts) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- fa:
		default:
			p.dropped++
			if p.dropped%100 == 1 {
				monitoring.Logf("publisher dropped frame %s for slow subscriber (total dropped: %d)",
					fa.FrameID, p.dropped)
			}
		}
	}
}

// Dropped returns the total frames dropped across all subscribers.
func (p *Publisher) Dropped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// SubscriberCount returns the number of active subscribers.
func (p *Publisher) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
