// Package ntripclient wraps gnssgo's Stream abstraction as an NTRIP
// caster client: the ambient transport a base-station feed or a
// corrections relay reads RTCM bytes from (spec.md §4.4's "caller-
// supplied buffer" is filled from a stream like this one).
package ntripclient

import (
	"fmt"
	"io"
	"sync"

	"github.com/bramburn/gnssgo/pkg/gnssgo"
)

// Config names the caster mountpoint to subscribe to.
type Config struct {
	Server     string
	Port       string
	Username   string
	Password   string
	Mountpoint string
}

// DefaultConfig returns a Config pointed at no caster, with Port set to
// the standard 2101; callers must set Server and Mountpoint before Connect.
func DefaultConfig() Config {
	return Config{Port: "2101"}
}

// Client reads RTCM correction bytes from an NTRIP caster mountpoint.
type Client struct {
	cfg       Config
	stream    gnssgo.Stream
	mutex     sync.Mutex
	connected bool
}

// New constructs a Client for the given caster mountpoint. It does not
// connect; call Connect.
func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Connect opens the NTRIP client stream against the configured caster.
func (c *Client) Connect() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.connected {
		return fmt.Errorf("ntripclient: already connected")
	}

	c.stream.InitStream()

	path := fmt.Sprintf("%s:%s@%s:%s/%s",
		c.cfg.Username, c.cfg.Password, c.cfg.Server, c.cfg.Port, c.cfg.Mountpoint)

	result := c.stream.OpenStream(gnssgo.STR_NTRIPCLI, gnssgo.STR_MODE_R, path)
	if result <= 0 || c.stream.State <= 0 {
		return fmt.Errorf("ntripclient: failed to connect to %s:%s/%s: %s",
			c.cfg.Server, c.cfg.Port, c.cfg.Mountpoint, c.stream.Msg)
	}

	c.connected = true
	return nil
}

// Disconnect closes the stream. It is a no-op if not connected.
func (c *Client) Disconnect() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.connected {
		return nil
	}
	c.stream.StreamClose()
	c.connected = false
	return nil
}

// Read implements io.Reader, feeding raw RTCM bytes to a framer or
// multiplexer upstream.
func (c *Client) Read(p []byte) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.connected {
		return 0, fmt.Errorf("ntripclient: not connected")
	}

	n := c.stream.StreamRead(p, len(p))
	if n <= 0 {
		return 0, io.EOF
	}
	return n, nil
}

// IsConnected reports whether Connect has succeeded without a matching
// Disconnect.
func (c *Client) IsConnected() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.connected
}
