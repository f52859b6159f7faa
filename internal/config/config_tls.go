package config

import (
	"crypto/tls"
	"fmt"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	cfg := c.Server.TLS

	if err := validateTLSMode(cfg); err != nil {
		return err
	}
	return validateTLSVersion(cfg)
}

func validateTLSMode(cfg TLSConfig) error {
	switch cfg.Mode {
	case "disabled", "":
		return nil
	case "server":
		if (cfg.CertFile == "" && cfg.CertContent == "") || (cfg.KeyFile == "" && cfg.KeyContent == "") {
			return fmt.Errorf("TLS certificate and key are required for server mode (provide either files or content)")
		}
		if cfg.CertFile != "" && cfg.CertContent != "" {
			return fmt.Errorf("cannot specify both certFile and certContent - choose one")
		}
		if cfg.KeyFile != "" && cfg.KeyContent != "" {
			return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
		}
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", cfg.Mode)
	}
}

func validateTLSVersion(cfg TLSConfig) error {
	switch cfg.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", cfg.MinVersion)
	}
}

// Enabled reports whether the server should listen with TLS.
func (t TLSConfig) Enabled() bool {
	return t.Mode == "server"
}

// BuildServerTLS loads the key pair from files or PEM content.
func (t TLSConfig) BuildServerTLS() (*tls.Config, error) {
	var (
		cert tls.Certificate
		err  error
	)
	if t.CertContent != "" || t.KeyContent != "" {
		cert, err = tls.X509KeyPair([]byte(t.CertContent), []byte(t.KeyContent))
	} else {
		cert, err = tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	minVersion := uint16(tls.VersionTLS12)
	if t.MinVersion == "1.3" {
		minVersion = tls.VersionTLS13
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}, nil
}
