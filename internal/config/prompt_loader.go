package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptFile ties a configured prompt file to the operation it serves
type promptFile struct {
	operation string
	kind      string
	path      string
}

// promptFiles lists every prompt file configured across operations
func (c *Config) promptFiles() []promptFile {
	var files []promptFile
	for _, op := range Operations {
		block := c.operationBlock(op)
		if block == nil {
			continue
		}
		if block.Prompts.SystemFile != "" {
			files = append(files, promptFile{op, PromptSystem, block.Prompts.SystemFile})
		}
		if block.Prompts.UserFile != "" {
			files = append(files, promptFile{op, PromptUser, block.Prompts.UserFile})
		}
	}
	return files
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	store := c.Prompts()
	for _, f := range c.promptFiles() {
		content, err := loadPromptFromFile(f.path, f.kind, f.operation)
		if err != nil {
			return err
		}
		store.Set(f.operation, f.kind, content)
	}

	if n := store.Count(); n == 0 {
		log.Println("[CONFIG] No custom prompt files loaded - using config or built-in prompts")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded from files: %d", n)
	}
	return nil
}

// loadPromptFromFile reads and trims a prompt file. Empty files are rejected.
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmed))

	return trimmed, nil
}

// validatePromptFiles checks that every configured prompt file exists before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	for _, f := range c.promptFiles() {
		absPath, err := filepath.Abs(f.path)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", f.kind, f.operation, f.path))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", f.kind, f.operation, absPath))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}

// ResolvePrompts picks the prompt text for op. A prompt loaded from a file
// wins over inline config, which wins over the built-in default.
func (c *Config) ResolvePrompts(op string, defaults LoadedPrompt) LoadedPrompt {
	fromFile := c.Prompts().Get(op)

	var fromConfig PromptConfig
	if block := c.operationBlock(op); block != nil {
		fromConfig = block.Prompts
	}

	return LoadedPrompt{
		System: resolvePrompt(fromFile.System, fromConfig.System, defaults.System),
		User:   resolvePrompt(fromFile.User, fromConfig.User, defaults.User),
	}
}

func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
