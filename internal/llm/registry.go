package llm

import "fmt"

// ProviderFactory creates a new provider instance.
type ProviderFactory func() (Provider, error)

// global registry of available providers
var providers = make(map[string]ProviderFactory)

// RegisterProvider registers a provider factory under the given name.
// Provider packages call this from init so importing them is enough.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates a provider instance by registry name.
func NewProvider(name string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory()
}
