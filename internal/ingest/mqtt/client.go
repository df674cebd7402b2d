package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"disaster_response/internal/config"
	"disaster_response/internal/logger"
	"disaster_response/internal/risk"
	"disaster_response/internal/service"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	disconnectQuiesceMs = 250
	processTimeout      = 30 * time.Second
	sourcePrefix        = "mqtt:"
)

var ErrNoBroker = errors.New("mqtt broker address is empty")

// Client subscribes to sensor topics and runs every payload through the pipeline.
type Client struct {
	client   paho.Client
	cfg      config.MQTTConfig
	pipeline service.Pipeline
	log      *logger.Logger
}

func NewClient(cfg config.MQTTConfig, pipeline service.Pipeline, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, ErrNoBroker
	}
	if log == nil {
		log = logger.Nop()
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if strings.HasPrefix(cfg.Broker, "ssl://") || strings.HasPrefix(cfg.Broker, "wss://") {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warnw("mqtt_connection_lost", "broker", cfg.Broker, "err", err)
	})
	opts.SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
		log.Infow("mqtt_reconnecting", "broker", cfg.Broker)
	})

	return &Client{
		client:   paho.NewClient(opts),
		cfg:      cfg,
		pipeline: pipeline,
		log:      log,
	}, nil
}

func (c *Client) Connect() error {
	token := c.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to mqtt broker %s: %w", c.cfg.Broker, token.Error())
	}
	c.log.Infow("mqtt_connected", "broker", c.cfg.Broker)
	return nil
}

func (c *Client) Subscribe() error {
	handler := func(_ paho.Client, msg paho.Message) {
		c.processMessage(msg.Topic(), msg.Payload())
	}
	token := c.client.Subscribe(c.cfg.Topic, byte(c.cfg.QoS), handler)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", c.cfg.Topic, token.Error())
	}
	c.log.Infow("mqtt_subscribed", "topic", c.cfg.Topic, "qos", c.cfg.QoS)
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(disconnectQuiesceMs)
	c.log.Infow("mqtt_disconnected", "broker", c.cfg.Broker)
}

// processMessage classifies one payload; invalid payloads are logged and dropped.
func (c *Client) processMessage(topic string, payload []byte) {
	readings, err := risk.ParsePayload(payload)
	if err != nil {
		c.log.Warnw("mqtt_payload_rejected", "topic", topic, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	res, err := c.pipeline.Run(ctx, readings, sourcePrefix+topic)
	if err != nil {
		c.log.Errorw("mqtt_pipeline_failed", "topic", topic, "err", err)
		return
	}
	c.log.Infow("mqtt_batch_processed",
		"topic", topic,
		"readings", res.Analysis.TotalReadings,
		"risk_level", res.RiskLevel,
		"pipeline_status", res.PipelineStatus,
	)
}
