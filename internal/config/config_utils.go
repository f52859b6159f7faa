package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// legacyEnv maps config keys onto the plain environment variable names the
// service has always honoured. The prefixed name is listed first so it wins.
var legacyEnv = map[string][]string{
	"ai.apiKey":     {"RESUMEGEN_AI_APIKEY", "GEMINI_API_KEY"},
	"ai.baseURL":    {"RESUMEGEN_AI_BASEURL", "LLM_BASE_URL"},
	"search.apiKey": {"RESUMEGEN_SEARCH_APIKEY", "TAVILY_API_KEY"},
	"server.port":   {"RESUMEGEN_SERVER_PORT", "PORT"},
}

func bindLegacyEnv(v *viper.Viper) error {
	for key, names := range legacyEnv {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// applyFallbacks fills values that depend on other settings
func (c *Config) applyFallbacks() {
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
	c.GitHub.RawBaseURL = strings.TrimRight(c.GitHub.RawBaseURL, "/")
	c.Search.BaseURL = strings.TrimRight(c.Search.BaseURL, "/")
}

func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// MaskSecret keeps the first and last four characters of long secrets.
func MaskSecret(value string) string {
	switch {
	case len(value) > 8:
		return value[:4] + "****" + value[len(value)-4:]
	case value != "":
		return "****"
	default:
		return ""
	}
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"RESUMEGEN_AI_APIKEY",
		"RESUMEGEN_AI_MODEL",
		"RESUMEGEN_SEARCH_APIKEY",
		"RESUMEGEN_SERVER_PORT",
		"RESUMEGEN_RENDERER_ENGINE",
		"RESUMEGEN_APP_LOGLEVEL",
		"RESUMEGEN_VAULT_ENABLED",
		"GEMINI_API_KEY",
		"TAVILY_API_KEY",
		"LLM_BASE_URL",
		"PORT",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			log.Printf("[CONFIG]   %s=***MASKED***", envVar)
		} else {
			log.Printf("[CONFIG]   %s=%s", envVar, value)
		}
		hasEnvVars = true
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s, Model: %s", c.AI.Provider, c.AI.Model)
	log.Printf("[CONFIG] AI API Key: %s", configuredState(c.AI.APIKey))
	if c.AI.BaseURL != "" {
		log.Printf("[CONFIG] AI Base URL: %s", c.AI.BaseURL)
	}
	log.Printf("[CONFIG] Search Provider: %s, API Key: %s", c.Search.Provider, configuredState(c.Search.APIKey))
	log.Printf("[CONFIG] README branches: %s", strings.Join(c.GitHub.Branches, ", "))
	log.Printf("[CONFIG] Renderer: %s (page %s, margin %s, dpi %d)", c.Renderer.Engine, c.Renderer.PageSize, c.Renderer.Margin, c.Renderer.DPI)
	log.Printf("[CONFIG] Pipeline workers: %d", c.Pipeline.Workers)
	log.Printf("[CONFIG] Server: %s:%s (TLS %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}

func configuredState(secret string) string {
	if secret == "" {
		return "***NOT SET***"
	}
	return "***CONFIGURED***"
}
