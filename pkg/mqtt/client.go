package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/hvaltia/ldr-platform/pkg/config"
)

const disconnectGraceMs = 250

// pahoClient implements Client on top of the Paho library
type pahoClient struct {
	client paho.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewClient builds a client from the service configuration. The
// connection is not opened until Connect is called.
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	client := &pahoClient{
		cfg:    cfg,
		logger: logger,
	}
	client.client = paho.NewClient(client.options())
	return client
}

func (m *pahoClient) options() *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(m.cfg.MQTTAddress())

	clientID := m.cfg.MQTTClientID
	if clientID == "" {
		clientID = fmt.Sprintf("%s-%d", m.cfg.ServiceName, time.Now().Unix())
	}
	opts.SetClientID(clientID)

	if m.cfg.MQTTUser != "" {
		opts.SetUsername(m.cfg.MQTTUser)
	}
	if m.cfg.MQTTPassword != "" {
		opts.SetPassword(m.cfg.MQTTPassword)
	}

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c paho.Client) {
		m.logger.Info("Connected to MQTT broker", "broker", m.cfg.MQTTAddress())
	}
	opts.OnConnectionLost = func(c paho.Client, err error) {
		m.logger.Warn("MQTT connection lost", "error", err)
	}
	opts.OnReconnecting = func(c paho.Client, o *paho.ClientOptions) {
		m.logger.Info("MQTT reconnecting...")
	}

	return opts
}

// Connect opens the broker session, honoring ctx cancellation while the
// handshake is in flight
func (m *pahoClient) Connect(ctx context.Context) error {
	m.logger.Info("Connecting to MQTT broker", "broker", m.cfg.MQTTAddress())

	token := m.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("connection timeout: %w", ctx.Err())
	}
}

func (m *pahoClient) Disconnect() {
	m.logger.Info("Disconnecting from MQTT broker")
	m.client.Disconnect(disconnectGraceMs)
}

func (m *pahoClient) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := m.client.Subscribe(topic, qos, func(c paho.Client, msg paho.Message) {
		handler(&pahoMessage{msg: msg})
	})
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())
	}

	m.logger.Info("Subscribed to topic", "topic", topic, "qos", qos)
	return nil
}

func (m *pahoClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := m.client.Publish(topic, qos, retained, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	m.logger.Debug("Published message", "topic", topic, "size", len(payload))
	return nil
}

func (m *pahoClient) IsConnected() bool {
	return m.client.IsConnected()
}

// pahoMessage adapts a Paho message to the Message interface
type pahoMessage struct {
	msg paho.Message
}

func (m *pahoMessage) Topic() string { return m.msg.Topic() }
func (m *pahoMessage) Payload() []byte { return m.msg.Payload() }
