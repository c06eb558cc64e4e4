package command

import (
	"github.com/pixil98/go-aeternus/internal/chronicle"
)

type ChronicleConfig struct {
	Path string `json:"path,omitempty"`
}

// BuildChronicle returns nil when no path is configured.
func (c *ChronicleConfig) BuildChronicle() (*chronicle.Chronicle, error) {
	if c.Path == "" {
		return nil, nil
	}
	return chronicle.Open(c.Path)
}
