package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-aeternus/internal/listener"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"
)

type ListenerType int

const (
	ListenerTypeTelnet ListenerType = iota
	ListenerTypeSSH
	ListenerTypeWebsocket
	ListenerTypeHttp
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*lt = ListenerTypeTelnet
	case "ssh":
		*lt = ListenerTypeSSH
	case "websocket":
		*lt = ListenerTypeWebsocket
	case "http":
		*lt = ListenerTypeHttp
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

// ListenerConfig is one way for players to reach the world.
type ListenerConfig struct {
	Protocol ListenerType `json:"protocol"`
	Port     uint16       `json:"port"`

	// Telnet only.
	Host        string `json:"host,omitempty"`
	MaxSessions int    `json:"max_sessions,omitempty"`

	// SSH only. An ephemeral key is generated when unset.
	HostKeyPath string `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.HostKeyPath != "" && cl.Protocol != ListenerTypeSSH {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}
	if cl.MaxSessions < 0 {
		el.Add(fmt.Errorf("max_sessions must not be negative"))
	}
	if (cl.Host != "" || cl.MaxSessions != 0) && cl.Protocol != ListenerTypeTelnet {
		el.Add(fmt.Errorf("host and max_sessions only apply to telnet listeners"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager, cmds listener.Processor) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Port, cm,
			listener.WithTelnetHost(cl.Host),
			listener.WithTelnetCapacity(cl.MaxSessions),
		), nil
	case ListenerTypeSSH:
		hostKey, err := sshHostKey(cl.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.Port, cm, hostKey), nil
	case ListenerTypeWebsocket:
		return listener.NewWebsocketListener(cl.Port, cm), nil
	case ListenerTypeHttp:
		return listener.NewHttpListener(cl.Port, cmds), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}

// sshHostKey loads the server key at path, or makes a throwaway ed25519 key
// when path is empty. A throwaway key changes on every restart, so players'
// clients will warn about it.
func sshHostKey(path string) (ssh.Signer, error) {
	if path == "" {
		slog.Warn("ssh listener has no host_key_path, using an ephemeral key")
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generating ephemeral key: %w", err)
		}
		return ssh.NewSignerFromKey(key)
	}

	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading host key %q: %w", path, err)
	}
	signer, err := ssh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key %q: %w", path, err)
	}
	return signer, nil
}
