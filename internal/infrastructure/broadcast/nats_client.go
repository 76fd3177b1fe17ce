package broadcast

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/resto/backend/internal/infrastructure/config"
)

// NATSClient is a thin wrapper over a NATS connection used to push
// client-facing messages to the floor and kitchen terminals.
type NATSClient struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSClient connects to the NATS server using the given configuration
func NewNATSClient(cfg *config.NATSConfig, logger *zap.Logger) (*NATSClient, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSClient{conn: conn, logger: logger}, nil
}

// Publish sends a message to the given subject
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// Close drains pending messages and closes the connection
func (c *NATSClient) Close() error {
	return c.conn.Drain()
}

// Ensure NATSClient satisfies the publisher interface
var _ Publisher = (*NATSClient)(nil)
