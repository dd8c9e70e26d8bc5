package wallet

import (
	"fmt"
	"sort"
	"sync"
)

// Registry makes wallets discoverable under the multi-wallet standard: each
// integration registers itself once by name, and consumers look providers
// up without knowing which SDK backs them.
type Registry struct {
	mu      sync.RWMutex
	wallets map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		wallets: make(map[string]Provider),
	}
}

// Register adds a provider under its own name. Registering the same name
// twice is an error, matching the standard's single-registration rule.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.wallets[name]; exists {
		return fmt.Errorf("wallet %q already registered", name)
	}

	r.wallets[name] = p
	return nil
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.wallets[name]
	return p, ok
}

// Names returns the registered wallet names in stable order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.wallets))
	for name := range r.wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
