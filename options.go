package roadftp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"
)

// Option is a functional option for the Connect and With entry points.
type Option func(*Config) error

// WithPort sets the control connection port. Defaults to 21.
func WithPort(port int) Option {
	return func(cfg *Config) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("port out of range: %d", port)
		}
		cfg.Port = port
		return nil
	}
}

// WithTimeout sets the per-socket-operation timeout, applied to connect,
// read, and write on both the control and data connections.
// Defaults to 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) error {
		cfg.Timeout = timeout
		return nil
	}
}

// WithMode sets the data connection mode. Only ModePassive is supported;
// a session configured with ModeActive fails at connect time.
func WithMode(mode Mode) Option {
	return func(cfg *Config) error {
		cfg.Mode = mode
		return nil
	}
}

// WithSecure upgrades the control and data connections to TLS, with the
// server's identity validated against the configured host.
func WithSecure() Option {
	return func(cfg *Config) error {
		cfg.Secure = true
		return nil
	}
}

// WithTLSConfig enables TLS with a custom configuration. The ServerName
// should name the host being connected to; data connections reuse this
// configuration, so validation stays pinned to the session's host rather
// than whatever address the PASV reply advertises.
func WithTLSConfig(config *tls.Config) Option {
	return func(cfg *Config) error {
		if config == nil {
			return fmt.Errorf("nil TLS config")
		}
		cfg.Secure = true
		cfg.TLSConfig = config
		return nil
	}
}

// WithLogger enables debug logging using the provided logger.
// Every command and response on the control channel is logged at debug
// level; PASS arguments are redacted.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	sess, _ := roadftp.Connect("ftp.example.com", "user", "pass",
//	    roadftp.WithLogger(logger),
//	)
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) error {
		cfg.Logger = logger
		return nil
	}
}
