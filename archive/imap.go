// Package archive stores finished messages in an IMAP mailbox.
package archive

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// Defaults for the IMAP archive.
const (
	DefaultMailbox = "INBOX"
	DefaultTimeout = 30 * time.Second
)

// ErrNoAddress is returned when no server address is configured.
var ErrNoAddress = errors.New("no IMAP server address")

// Config is the connection configuration of an IMAP archive.
type Config struct {
	// Address is the host:port of the server.
	Address  string
	Username string
	Password string

	// Mailbox receives the messages. The default is DefaultMailbox.
	Mailbox string

	// TLS dials with implicit TLS.
	TLS bool

	// InsecureSkipVerify turns off certificate checks for TLS.
	InsecureSkipVerify bool

	// Timeout bounds each command. The default is DefaultTimeout.
	Timeout time.Duration
}

// IMAP appends messages to a mailbox. Each call opens its own connection.
type IMAP struct {
	cfg    Config
	logger *slog.Logger
}

// NewIMAP returns an archive for the given configuration. A nil logger means
// slog.Default().
func NewIMAP(cfg Config, logger *slog.Logger) *IMAP {
	if cfg.Mailbox == "" {
		cfg.Mailbox = DefaultMailbox
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IMAP{cfg: cfg, logger: logger}
}

// dial connects to the server. The connection attempt is bounded by the
// configured timeout like every later command.
func (a *IMAP) dial() (*client.Client, error) {
	d := &net.Dialer{Timeout: a.cfg.Timeout}
	if a.cfg.TLS {
		return client.DialWithDialerTLS(d, a.cfg.Address, &tls.Config{
			InsecureSkipVerify: a.cfg.InsecureSkipVerify, //nolint:gosec // opt-in for test servers
		})
	}
	return client.DialWithDialer(d, a.cfg.Address)
}

// Archive appends msg to the configured mailbox with the \Seen flag and the
// given internal date.
func (a *IMAP) Archive(ctx context.Context, msg []byte, date time.Time) error {
	if a.cfg.Address == "" {
		return ErrNoAddress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c, err := a.dial()
	if err != nil {
		return fmt.Errorf("dial %s: %w", a.cfg.Address, err)
	}
	c.Timeout = a.cfg.Timeout

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Terminate()
		case <-done:
		}
	}()

	defer func() {
		if err := c.Logout(); err != nil {
			a.logger.Debug("imap logout failed", "error", err)
		}
	}()

	if a.cfg.Username != "" {
		if err := c.Login(a.cfg.Username, a.cfg.Password); err != nil {
			return fmt.Errorf("login as %s: %w", a.cfg.Username, err)
		}
	}

	flags := []string{imap.SeenFlag}
	if err := c.Append(a.cfg.Mailbox, flags, date, bytes.NewBuffer(msg)); err != nil {
		return fmt.Errorf("append to %s: %w", a.cfg.Mailbox, err)
	}

	a.logger.Debug("appended message",
		"mailbox", a.cfg.Mailbox,
		"size", len(msg))

	return nil
}
