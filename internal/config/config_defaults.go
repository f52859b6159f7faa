package config

import (
	"time"

	"github.com/spf13/viper"
)

type operationDefaults struct {
	name            string
	timeout         time.Duration
	maxRetries      int
	temperature     float32
	maxOutputTokens int32
}

var aiOperationDefaults = []operationDefaults{
	{OpDescribe, 60 * time.Second, 2, 0.3, 1550},
	{OpCategorize, 30 * time.Second, 2, 0.3, 650},
	{OpResume, 90 * time.Second, 2, 0.3, 6050},
	{OpCoverLetter, 90 * time.Second, 2, 0.7, 2048},
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseURL", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.maxOutputTokens", 2048)
	v.SetDefault("ai.useSystemPrompts", true)
	v.SetDefault("ai.requestsPerSecond", 5.0)
	v.SetDefault("ai.burst", 5)

	for _, op := range aiOperationDefaults {
		prefix := "ai." + op.name + "."
		v.SetDefault(prefix+"provider", "gemini")
		v.SetDefault(prefix+"model", "")
		v.SetDefault(prefix+"timeout", op.timeout)
		v.SetDefault(prefix+"maxRetries", op.maxRetries)
		v.SetDefault(prefix+"temperature", op.temperature)
		v.SetDefault(prefix+"maxOutputTokens", op.maxOutputTokens)
		v.SetDefault(prefix+"useSystemPrompts", true)

		v.SetDefault(prefix+"circuitBreaker.enabled", true)
		v.SetDefault(prefix+"circuitBreaker.maxRequests", 3)
		v.SetDefault(prefix+"circuitBreaker.interval", 60*time.Second)
		v.SetDefault(prefix+"circuitBreaker.timeout", 60*time.Second)
		v.SetDefault(prefix+"circuitBreaker.minRequests", 3)
		v.SetDefault(prefix+"circuitBreaker.failureThreshold", 0.6)
	}

	v.SetDefault("github.host", "github.com")
	v.SetDefault("github.rawBaseURL", "https://raw.githubusercontent.com")
	v.SetDefault("github.branches", []string{"main", "master"})
	v.SetDefault("github.readmeFile", "README.md")
	v.SetDefault("github.timeout", 20*time.Second)
	v.SetDefault("github.requestsPerSecond", 10.0)
	v.SetDefault("github.burst", 10)

	v.SetDefault("search.provider", "tavily")
	v.SetDefault("search.apiKey", "")
	v.SetDefault("search.baseURL", "https://api.tavily.com")
	v.SetDefault("search.maxResults", 5)
	v.SetDefault("search.timeout", 20*time.Second)

	v.SetDefault("renderer.engine", "wkhtmltopdf")
	v.SetDefault("renderer.binaryPath", "")
	v.SetDefault("renderer.chromePath", "")
	v.SetDefault("renderer.pageSize", "A4")
	v.SetDefault("renderer.margin", "10mm")
	v.SetDefault("renderer.dpi", 300)
	v.SetDefault("renderer.timeout", 60*time.Second)
	v.SetDefault("renderer.styleSheetFile", "")

	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.repositoryTimeout", 45*time.Second)
	v.SetDefault("pipeline.sessionTTL", time.Hour)
	v.SetDefault("pipeline.cleanupInterval", 5*time.Minute)
	v.SetDefault("pipeline.maxRepositories", 20)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 180*time.Second) // resume + PDF can take a while
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 1024*1024)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 30)
	v.SetDefault("server.rateLimit.burstCapacity", 5)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", true)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")

	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024)
	v.SetDefault("app.watchPrompts", true)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.tavilyKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumegen")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
