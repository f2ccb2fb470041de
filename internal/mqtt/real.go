package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/thermostat/internal/logger"
)

// RealClient talks to an actual MQTT broker. The broker holds "offline"
// as the last will on the availability topic; every (re)connection flips
// it back to "online" and re-establishes the config subscription.
type RealClient struct {
	client paho.Client
	topics Topics
	log    *logger.Logger
}

// NewRealClient connects to the broker and subscribes to the config
// topic. onConfig runs on paho's callback goroutine for every config
// message received.
func NewRealClient(broker, clientID string, topics Topics, onConfig func([]byte), log *logger.Logger) (*RealClient, error) {
	c := &RealClient{topics: topics, log: log}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(topics.Availability, AvailabilityOffline, 1, true).
		SetOnConnectHandler(func(client paho.Client) {
			c.onConnect(client, onConfig)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warnf("mqtt connection lost: %v", err)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	c.client = client
	return c, nil
}

// onConnect runs on every (re)connection. Connecting with a clean session
// drops subscriptions (MQTT spec 3.1.2.4), so the config subscription is
// re-established here along with the retained online announcement.
func (c *RealClient) onConnect(client paho.Client, onConfig func([]byte)) {
	sub := client.Subscribe(c.topics.Config, 1, func(_ paho.Client, msg paho.Message) {
		onConfig(msg.Payload())
	})
	if !sub.WaitTimeout(5 * time.Second) {
		c.log.Errorf("subscribe %s: timeout", c.topics.Config)
	} else if err := sub.Error(); err != nil {
		c.log.Errorf("subscribe %s: %v", c.topics.Config, err)
	}

	avail := client.Publish(c.topics.Availability, 1, true, AvailabilityOnline)
	if !avail.WaitTimeout(5 * time.Second) {
		c.log.Errorf("announce availability: timeout")
	} else if err := avail.Error(); err != nil {
		c.log.Errorf("announce availability: %v", err)
	} else {
		c.log.Infof("mqtt connected, announced %s", AvailabilityOnline)
	}
}

// PublishStatus sends the per-cycle status record, retained.
func (c *RealClient) PublishStatus(s Status) error {
	payload, err := FormatStatus(s)
	if err != nil {
		return fmt.Errorf("format status: %w", err)
	}
	return c.publish(c.topics.Status, payload, true)
}

// PublishError sends a plain-text error event, not retained.
func (c *RealClient) PublishError(msg string) error {
	return c.publish(c.topics.Error, []byte(msg), false)
}

func (c *RealClient) publish(topic string, payload []byte, retain bool) error {
	// QoS 0 (at-most-once): telemetry is refreshed every cycle.
	token := c.client.Publish(topic, 0, retain, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnected()
}

// Close announces offline and disconnects from the broker.
func (c *RealClient) Close() error {
	token := c.client.Publish(c.topics.Availability, 1, true, AvailabilityOffline)
	token.WaitTimeout(2 * time.Second)
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
