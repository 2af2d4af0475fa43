// Package agents loads the embedded agent definitions.
package agents

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// TripMitraAgent is the travel-planning agent served by the API.
const TripMitraAgent = "trip_mitra_agent"

// Registry holds agent definitions by name
type Registry struct {
	agents map[string]*Definition
	mu     sync.RWMutex
}

// NewRegistry creates a registry from every embedded YAML file
func NewRegistry() (*Registry, error) {
	r := &Registry{
		agents: make(map[string]*Definition),
	}

	entries, err := configFiles.ReadDir("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read agent configs: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		if err := r.loadFile(path.Join("config", entry.Name())); err != nil {
			return nil, err
		}
	}

	if _, ok := r.agents[TripMitraAgent]; !ok {
		return nil, fmt.Errorf("missing agent definition %q", TripMitraAgent)
	}

	return r, nil
}

func (r *Registry) loadFile(filename string) error {
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if def.Name == "" || def.Model == "" || strings.TrimSpace(def.Instruction) == "" {
		return fmt.Errorf("%s: name, model and instruction are required", filename)
	}
	if def.Output == "" {
		def.Output = OutputText
	}

	r.mu.Lock()
	r.agents[def.Name] = &def
	r.mu.Unlock()

	return nil
}

// Get returns the named definition
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent: %s", name)
	}
	return def, nil
}

// Names returns the registered agent names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
