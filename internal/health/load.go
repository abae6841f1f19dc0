package health

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ContextFile is the on-disk shape accepted by LoadContextFile: a user
// context plus an optional conversation history.
type ContextFile struct {
	UserContext `yaml:",inline"`
	History     []Turn `yaml:"history,omitempty"`
}

// LoadContextFile reads a YAML (or JSON, which YAML accepts) context file.
func LoadContextFile(path string) (UserContext, []Turn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return UserContext{}, nil, fmt.Errorf("reading context file: %w", err)
	}
	return ParseContext(data)
}

// ParseContext decodes a context document from YAML or JSON bytes.
func ParseContext(data []byte) (UserContext, []Turn, error) {
	var f ContextFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return UserContext{}, nil, fmt.Errorf("parsing context file: %w", err)
	}
	for i, t := range f.History {
		if !ValidRole(t.Role) {
			return UserContext{}, nil, fmt.Errorf("history[%d]: unknown role %q", i, t.Role)
		}
	}
	return f.UserContext, f.History, nil
}
