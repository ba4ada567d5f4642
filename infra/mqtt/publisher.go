// Package mqtt pushes computed board snapshots to display clients over an
// MQTT broker. Publishing is optional and config-gated; the computation
// pipeline never depends on a broker being reachable.
package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Config holds broker settings for the board publisher.
type Config struct {
	Enabled               bool   `json:"enabled"`
	Broker                string `json:"broker"`
	ClientID              string `json:"client_id"`
	Username              string `json:"username"`
	Password              string `json:"password"`
	Topic                 string `json:"topic"`
	QoS                   byte   `json:"qos"`
	Retained              bool   `json:"retained"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "planche"
	}
	if c.Topic == "" {
		c.Topic = "planche/board"
	}
	if c.ConnectTimeoutSeconds == 0 {
		c.ConnectTimeoutSeconds = 5
	}
}

// Validate checks mandatory fields when publishing is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt is enabled")
	}
	return nil
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// Publisher pushes board snapshots to whoever renders them.
type Publisher interface {
	PublishBoard(payload []byte) error
	Close()
}

// PahoPublisher implements Publisher using Eclipse Paho.
type PahoPublisher struct {
	client paho.Client
	cfg    Config
}

// NewPahoPublisher connects to the broker and returns a ready publisher.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.timeout())
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.timeout()) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &PahoPublisher{client: client, cfg: cfg}, nil
}

// PublishBoard sends one board snapshot to the configured topic.
func (p *PahoPublisher) PublishBoard(payload []byte) error {
	token := p.client.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retained, payload)
	if !token.WaitTimeout(p.cfg.timeout()) {
		return fmt.Errorf("mqtt publish to %s timed out", p.cfg.Topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() {
	p.client.Disconnect(250)
}

// MockPublisher records payloads for tests.
type MockPublisher struct {
	mu       sync.Mutex
	Payloads [][]byte
	Fail     bool
	Closed   bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishBoard records the payload or returns an error if configured to
// fail.
func (m *MockPublisher) PublishBoard(payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Payloads = append(m.Payloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}
