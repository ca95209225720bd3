package publish

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/banshee-data/ouster.report/internal/ouster/msgs"
)

// Topic suffixes under the configured prefix, one per artifact kind.
const (
	TopicPoints   = "points"
	TopicScan     = "scan"
	TopicImu      = "imu"
	TopicTF       = "tf"
	TopicMetadata = "metadata"
)

// MQTTConfig configures an MQTTPublisher.
type MQTTConfig struct {
	Broker      string // e.g. "tcp://localhost:1883"
	ClientID    string
	TopicPrefix string // e.g. "sensors/os1-16"; suffixes are appended per kind
	QoS         byte
}

// MQTTPublisher serializes artifacts as JSON and publishes them on per-kind
// topics. The zero QoS fire-and-forget default matches a sensor stream where
// the next frame supersedes a lost one.
type MQTTPublisher struct {
	cfg    MQTTConfig
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker. The caller owns the returned
// publisher and must Close it.
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	return &MQTTPublisher{cfg: cfg, client: client}, nil
}

// newMQTTPublisherWithClient exists for tests that inject a fake client.
func newMQTTPublisherWithClient(cfg MQTTConfig, client mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{cfg: cfg, client: client}
}

// Topic returns the full topic for an artifact kind suffix.
func (p *MQTTPublisher) Topic(suffix string) string {
	if p.cfg.TopicPrefix == "" {
		return suffix
	}
	return p.cfg.TopicPrefix + "/" + suffix
}

func (p *MQTTPublisher) publishJSON(suffix string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", suffix, err)
	}
	token := p.client.Publish(p.Topic(suffix), p.cfg.QoS, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing %s: %w", suffix, token.Error())
	}
	return nil
}

// PublishCloud publishes a structured point cloud.
func (p *MQTTPublisher) PublishCloud(cloud msgs.PointCloud) error {
	return p.publishJSON(TopicPoints, cloud)
}

// PublishScan publishes a planar laser scan.
func (p *MQTTPublisher) PublishScan(scan msgs.LaserScan) error {
	return p.publishJSON(TopicScan, scan)
}

// PublishImu publishes an inertial reading.
func (p *MQTTPublisher) PublishImu(m msgs.Imu) error {
	return p.publishJSON(TopicImu, m)
}

// PublishTransform publishes a stamped rigid transform.
func (p *MQTTPublisher) PublishTransform(tf msgs.TransformStamped) error {
	return p.publishJSON(TopicTF, tf)
}

// PublishMetadata publishes the device session metadata. Retained so late
// subscribers see the current session without waiting for a republish.
func (p *MQTTPublisher) PublishMetadata(m msgs.Metadata) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding metadata payload: %w", err)
	}
	token := p.client.Publish(p.Topic(TopicMetadata), p.cfg.QoS, true, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing metadata: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker, allowing 250ms for in-flight messages.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
