package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-aeternus/internal/messaging"
	"github.com/pixil98/go-errors"
)

// NatsConfig controls the embedded NATS server that carries room broadcasts.
// Without it, broadcasts only reach the combat log.
type NatsConfig struct {
	Enabled bool `json:"enabled"`
	// WorldName identifies this world's server and client connection.
	WorldName    string `json:"world_name"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (c *NatsConfig) startTimeout() (time.Duration, error) {
	if c.StartTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.StartTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing nats.start_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("nats.start_timeout must be positive")
	}
	return d, nil
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := c.startTimeout(); err != nil {
		el.Add(err)
	}
	if c.Port < -1 {
		el.Add(fmt.Errorf("nats.port must be -1 (random) or a port number"))
	}

	return el.Err()
}

func (c *NatsConfig) BuildNatsServer() (*messaging.NatsServer, error) {
	timeout, err := c.startTimeout()
	if err != nil {
		return nil, err
	}

	var opts []messaging.NatsServerOpt
	if timeout > 0 {
		opts = append(opts, messaging.WithStartTimeout(timeout))
	}
	if c.WorldName != "" {
		opts = append(opts, messaging.WithName(c.WorldName))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	return messaging.NewNatsServer(opts...)
}
