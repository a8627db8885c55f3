package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"thermostat_dashboard/internal/config"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
)

const (
	defaultTopicPrefix = "thermoview"
	defaultClientID    = "thermoview"
	publishQoS         = 1
	publishTimeout     = 5 * time.Second
	disconnectQuiesce  = 250 // ms
)

// connectWait bounds how long New waits for the first connection. With
// connect retry on, the client keeps trying in the background afterwards.
var connectWait = 5 * time.Second

// Publisher pushes the latest render snapshot to an MQTT broker as a
// retained message, so late subscribers get the current values.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New connects to the broker described by cfg. If the broker is not
// reachable within connectWait it logs a warning and returns a publisher
// that connects once the broker comes up.
func New(cfg config.MQTTConfig, log *logger.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	if log == nil {
		log = logger.Nop()
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectWait) {
		log.Warnw("mqtt_connect_pending", "broker", cfg.Broker, "waited", connectWait)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	return newWithClient(client, cfg.TopicPrefix), nil
}

func newWithClient(client mqtt.Client, topicPrefix string) *Publisher {
	topicPrefix = strings.Trim(topicPrefix, "/")
	if topicPrefix == "" {
		topicPrefix = defaultTopicPrefix
	}
	return &Publisher{client: client, topicPrefix: topicPrefix}
}

// Topic is where snapshots are published.
func (p *Publisher) Topic() string {
	return p.topicPrefix + "/state"
}

// Publish sends snap and waits for the broker to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, snap models.Snapshot) error {
	body, err := Payload(snap)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.Topic(), publishQoS, true, body)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing to %s: %w", p.Topic(), err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publishing to %s: timed out after %s", p.Topic(), publishTimeout)
	}
}

// Connected reports whether the broker connection is up.
func (p *Publisher) Connected() bool {
	return p.client != nil && p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiesce)
	}
}

// Payload encodes a snapshot as the published JSON document.
func Payload(snap models.Snapshot) ([]byte, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return body, nil
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}
