package config

// Generation steps that can be configured independently.
const (
	OpDescribe    = "describe"
	OpCategorize  = "categorize"
	OpResume      = "resume"
	OpCoverLetter = "coverLetter"
)

// Operations lists every configurable generation step.
var Operations = []string{OpDescribe, OpCategorize, OpResume, OpCoverLetter}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.BaseURL == "" {
		opCfg.BaseURL = c.AI.BaseURL
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.MaxOutputTokens == nil {
		tokens := c.AI.MaxOutputTokens
		opCfg.MaxOutputTokens = &tokens
	}
	if opCfg.UseSystemPrompts == nil {
		useSystem := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &useSystem
	}
	if opCfg.RequestsPerSecond == nil {
		rps := c.AI.RequestsPerSecond
		opCfg.RequestsPerSecond = &rps
	}
	if opCfg.Burst == nil {
		burst := c.AI.Burst
		opCfg.Burst = &burst
	}
}

// GetOperationConfig returns the AI configuration for op with fallback to
// the global AI block. Unknown operations get the global block alone.
func (c *Config) GetOperationConfig(op string) OperationAIConfig {
	var config OperationAIConfig
	switch op {
	case OpDescribe:
		config = c.AI.Describe
	case OpCategorize:
		config = c.AI.Categorize
	case OpResume:
		config = c.AI.Resume
	case OpCoverLetter:
		config = c.AI.CoverLetter
	}

	c.applyOperationDefaults(&config)
	return config
}

func (c *Config) GetDescribeConfig() OperationAIConfig    { return c.GetOperationConfig(OpDescribe) }
func (c *Config) GetCategorizeConfig() OperationAIConfig  { return c.GetOperationConfig(OpCategorize) }
func (c *Config) GetResumeConfig() OperationAIConfig      { return c.GetOperationConfig(OpResume) }
func (c *Config) GetCoverLetterConfig() OperationAIConfig { return c.GetOperationConfig(OpCoverLetter) }

// operationBlock returns a pointer to the raw (unmerged) block of op.
func (c *Config) operationBlock(op string) *OperationAIConfig {
	switch op {
	case OpDescribe:
		return &c.AI.Describe
	case OpCategorize:
		return &c.AI.Categorize
	case OpResume:
		return &c.AI.Resume
	case OpCoverLetter:
		return &c.AI.CoverLetter
	default:
		return nil
	}
}
