package config

import "sync"

// Prompt kinds
const (
	PromptSystem = "system"
	PromptUser   = "user"
)

// LoadedPrompt holds the prompt text of one operation as read from files.
// Empty fields mean no file was configured.
type LoadedPrompt struct {
	System string
	User   string
}

// PromptStore keeps file-backed prompts per operation. It is safe for
// concurrent use; the prompt watcher writes while generators read.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[string]LoadedPrompt
}

func NewPromptStore() *PromptStore {
	return &PromptStore{prompts: make(map[string]LoadedPrompt)}
}

// Get returns a copy of the prompts loaded for op
func (s *PromptStore) Get(op string) LoadedPrompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompts[op]
}

// Set replaces one prompt of op
func (s *PromptStore) Set(op, kind, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.prompts[op]
	switch kind {
	case PromptSystem:
		p.System = content
	case PromptUser:
		p.User = content
	}
	s.prompts[op] = p
}

// Count returns how many prompts were loaded from files
func (s *PromptStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.prompts {
		if p.System != "" {
			n++
		}
		if p.User != "" {
			n++
		}
	}
	return n
}
