package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMEGEN_AI_APIKEY, GEMINI_API_KEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	GitHub        GitHubConfig        `mapstructure:"github"`
	Search        SearchConfig        `mapstructure:"search"`
	Renderer      RendererConfig      `mapstructure:"renderer"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`

	prompts *PromptStore
}

// AIConfig holds LLM access configuration. The top-level fields are the
// fallback for every operation block.
type AIConfig struct {
	Provider          string        `mapstructure:"provider"`
	Model             string        `mapstructure:"model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	APIKey            string        `mapstructure:"apiKey"`
	BaseURL           string        `mapstructure:"baseURL"`
	MaxRetries        int           `mapstructure:"maxRetries"`
	Temperature       float32       `mapstructure:"temperature"`
	MaxOutputTokens   int32         `mapstructure:"maxOutputTokens"`
	UseSystemPrompts  bool          `mapstructure:"useSystemPrompts"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`

	Describe    OperationAIConfig `mapstructure:"describe"`
	Categorize  OperationAIConfig `mapstructure:"categorize"`
	Resume      OperationAIConfig `mapstructure:"resume"`
	CoverLetter OperationAIConfig `mapstructure:"coverLetter"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for one generation step.
// Pointer fields fall back to AIConfig when unset.
type OperationAIConfig struct {
	Provider          string               `mapstructure:"provider"`
	Model             string               `mapstructure:"model"`
	Timeout           *time.Duration       `mapstructure:"timeout"`
	APIKey            string               `mapstructure:"apiKey"`
	BaseURL           string               `mapstructure:"baseURL"`
	MaxRetries        *int                 `mapstructure:"maxRetries"`
	Temperature       *float32             `mapstructure:"temperature"`
	MaxOutputTokens   *int32               `mapstructure:"maxOutputTokens"`
	UseSystemPrompts  *bool                `mapstructure:"useSystemPrompts"`
	RequestsPerSecond *float64             `mapstructure:"requestsPerSecond"`
	Burst             *int                 `mapstructure:"burst"`
	Prompts           PromptConfig         `mapstructure:"prompts"`
	CircuitBreaker    CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig overrides the built-in prompts of one operation.
// File paths win over inline text.
type PromptConfig struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// GitHubConfig controls README retrieval
type GitHubConfig struct {
	Host              string        `mapstructure:"host"`
	RawBaseURL        string        `mapstructure:"rawBaseURL"`
	Branches          []string      `mapstructure:"branches"`
	ReadmeFile        string        `mapstructure:"readmeFile"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`
}

// SearchConfig controls the company lookup used by cover letters
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"`
	APIKey     string        `mapstructure:"apiKey"`
	BaseURL    string        `mapstructure:"baseURL"`
	MaxResults int           `mapstructure:"maxResults"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RendererConfig controls the HTML to PDF step
type RendererConfig struct {
	Engine         string        `mapstructure:"engine"` // wkhtmltopdf or chromedp
	BinaryPath     string        `mapstructure:"binaryPath"`
	ChromePath     string        `mapstructure:"chromePath"`
	PageSize       string        `mapstructure:"pageSize"`
	Margin         string        `mapstructure:"margin"`
	DPI            int           `mapstructure:"dpi"`
	Timeout        time.Duration `mapstructure:"timeout"`
	StyleSheetFile string        `mapstructure:"styleSheetFile"`
}

// PipelineConfig controls sessions and batch repository processing
type PipelineConfig struct {
	Workers           int           `mapstructure:"workers"`
	RepositoryTimeout time.Duration `mapstructure:"repositoryTimeout"`
	SessionTTL        time.Duration `mapstructure:"sessionTTL"`
	CleanupInterval   time.Duration `mapstructure:"cleanupInterval"`
	MaxRepositories   int           `mapstructure:"maxRepositories"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	// APIKeys enables X-API-Key or Bearer authentication on /api routes
	// except the welcome and health endpoints. Empty disables it.
	APIKeys   []string        `mapstructure:"apiKeys"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`

	TLS TLSConfig `mapstructure:"tls"`
}

// RateLimitConfig throttles the LLM-backed endpoints per client
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
	ByAPIKey       bool `mapstructure:"byAPIKey"`
}

// TLSConfig holds server-side TLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // disabled or server
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`

	// PEM content, used when loaded from Vault instead of files
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`

	MinVersion string `mapstructure:"minVersion"` // "1.2" or "1.3"
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	WatchPrompts     bool     `mapstructure:"watchPrompts"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	ConsoleOutput   bool              `mapstructure:"consoleOutput"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from .env, environment variables and a config file
func LoadConfig() (*Config, error) {
	return LoadConfigWith(viper.New())
}

// LoadConfigWith loads configuration into an existing viper instance, which
// lets the CLI bind its flags before values are resolved.
func LoadConfigWith(v *viper.Viper) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	if err := godotenv.Load(); err == nil {
		log.Println("[CONFIG] Loaded environment from .env")
	}

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("RESUMEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, fmt.Errorf("failed to bind legacy environment variables: %w", err)
	}
	log.Println("[CONFIG] Configured environment variable handling with prefix 'RESUMEGEN'")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumegen/")
	v.AddConfigPath("$HOME/.resumegen")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	config.prompts = NewPromptStore()
	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks if the configuration is valid. API keys are checked
// lazily by the components that need them so that commands like `readme`
// work without any credentials.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if len(c.GitHub.Branches) == 0 {
		return fmt.Errorf("at least one README branch candidate is required")
	}

	switch c.Renderer.Engine {
	case "wkhtmltopdf", "chromedp":
	default:
		return fmt.Errorf("invalid renderer engine: %s (must be 'wkhtmltopdf' or 'chromedp')", c.Renderer.Engine)
	}

	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline workers must be at least 1")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// Prompts returns the store holding prompt text loaded from files.
func (c *Config) Prompts() *PromptStore {
	if c.prompts == nil {
		c.prompts = NewPromptStore()
	}
	return c.prompts
}
