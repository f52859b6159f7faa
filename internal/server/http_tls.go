package server

import (
	"fmt"
	"net/http"
)

// configureTLS loads the server key pair when TLS is enabled
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case "server":
		tlsConfig, err := s.TLSConfig.BuildServerTLS()
		if err != nil {
			return fmt.Errorf("failed to set up TLS: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
		fmt.Printf("Starting server with HTTPS on https://%s (min TLS %s)\n", httpServer.Addr, s.minTLSVersion())
		return nil
	case "disabled", "":
		fmt.Printf("Starting server on http://%s\n", httpServer.Addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", s.TLSConfig.Mode)
	}
}

func (s *Server) minTLSVersion() string {
	if s.TLSConfig.MinVersion == "" {
		return "1.2"
	}
	return s.TLSConfig.MinVersion
}
