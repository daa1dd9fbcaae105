package sim

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named architecture configurations. The built-in SLC/MLC/TLC
// table registers itself at init; callers can add further architectures
// without touching the simulation components.
type Registry struct {
	mu    sync.RWMutex
	archs map[string]ArchConfig
}

// globalRegistry is the default architecture registry.
var globalRegistry = &Registry{
	archs: make(map[string]ArchConfig),
}

// Register adds an architecture to the global registry.
func Register(cfg ArchConfig) error {
	return globalRegistry.Register(cfg)
}

// Get retrieves an architecture from the global registry by key.
func Get(key string) (ArchConfig, error) {
	return globalRegistry.Get(key)
}

// List returns all architecture keys in the global registry.
func List() []string {
	return globalRegistry.List()
}

// All returns all architectures in the global registry.
func All() []ArchConfig {
	return globalRegistry.All()
}

// Default returns the global registry holding the built-in table.
func Default() *Registry {
	return globalRegistry
}

// NewRegistry creates an empty architecture registry.
func NewRegistry() *Registry {
	return &Registry{
		archs: make(map[string]ArchConfig),
	}
}

// Register adds an architecture to the registry. The short key is derived
// from cfg.Name up to the first space, lowercased by Key.
func (r *Registry) Register(cfg ArchConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	key := Key(cfg.Name)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.archs[key]; exists {
		return fmt.Errorf("architecture %q already registered", key)
	}

	r.archs[key] = cfg
	return nil
}

// Put adds or replaces an architecture. Used when merging a user-supplied
// table over the built-ins.
func (r *Registry) Put(cfg ArchConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.archs[Key(cfg.Name)] = cfg
	return nil
}

// Get retrieves an architecture by key.
func (r *Registry) Get(key string) (ArchConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.archs[Key(key)]
	if !exists {
		return ArchConfig{}, fmt.Errorf("architecture %q not found", key)
	}
	return cfg, nil
}

// List returns all registered architecture keys in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.archs))
	for key := range r.archs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// All returns all registered architectures sorted by descending mean
// endurance, the order they are conventionally charted in (SLC first).
func (r *Registry) All() []ArchConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]ArchConfig, 0, len(r.archs))
	for _, cfg := range r.archs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].MeanEndurance != configs[j].MeanEndurance {
			return configs[i].MeanEndurance > configs[j].MeanEndurance
		}
		return configs[i].Name < configs[j].Name
	})
	return configs
}

// Key derives the registry lookup key for an architecture name: the first
// word, lowercased, so "SLC (Single-Level Cell)" registers as "slc".
func Key(name string) string {
	end := len(name)
	for i, ch := range name {
		if ch == ' ' {
			end = i
			break
		}
	}
	key := name[:end]
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		out[i] = ch
	}
	return string(out)
}
