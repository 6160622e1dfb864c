package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the configured providers and picks the one that serves
// generation calls.
type Registry struct {
	mu sync.RWMutex

	providers map[ProviderType]Provider
	default_  ProviderType
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[ProviderType]Provider),
	}
}

// Register adds a provider under the type reported by its Name. The first
// provider registered becomes the default.
func (r *Registry) Register(provider Provider) error {
	if err := provider.ValidateConfig(); err != nil {
		return fmt.Errorf("invalid provider config for %s: %w", provider.Name(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	providerType := ProviderType(provider.Name())
	r.providers[providerType] = provider
	if r.default_ == "" {
		r.default_ = providerType
	}
	return nil
}

// Get returns a provider by type
func (r *Registry) Get(providerType ProviderType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[providerType]
	if !ok {
		return nil, fmt.Errorf("provider not registered: %s", providerType)
	}
	return provider, nil
}

// Default returns the default provider
func (r *Registry) Default() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, fmt.Errorf("no default provider set")
	}
	return r.providers[r.default_], nil
}

// SetDefault sets the default provider
func (r *Registry) SetDefault(providerType ProviderType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[providerType]; !ok {
		return fmt.Errorf("provider not registered: %s", providerType)
	}
	r.default_ = providerType
	return nil
}

// Available returns all registered provider types in name order
func (r *Registry) Available() []ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ProviderType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// GetForModel returns the first provider, in name order, that supports the
// given model
func (r *Registry) GetForModel(model string) (Provider, error) {
	for _, t := range r.Available() {
		provider, err := r.Get(t)
		if err != nil {
			continue
		}
		if provider.SupportsModel(model) {
			return provider, nil
		}
	}
	return nil, fmt.Errorf("no provider supports model: %s", model)
}

// Close closes all registered providers
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// RegistryBuilder provides a fluent interface for building a registry
type RegistryBuilder struct {
	registry *Registry
	ctx      context.Context
	errors   []error
}

// NewRegistryBuilder creates a new builder
func NewRegistryBuilder(ctx context.Context) *RegistryBuilder {
	return &RegistryBuilder{
		registry: NewRegistry(),
		ctx:      ctx,
	}
}

func (b *RegistryBuilder) add(name string, provider Provider, err error) *RegistryBuilder {
	if err == nil {
		err = b.registry.Register(provider)
	}
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("%s: %w", name, err))
	}
	return b
}

// WithAnthropic adds an Anthropic provider
func (b *RegistryBuilder) WithAnthropic(config AnthropicConfig) *RegistryBuilder {
	provider, err := NewAnthropicProvider(config)
	return b.add("anthropic", provider, err)
}

// WithOpenAI adds an OpenAI provider
func (b *RegistryBuilder) WithOpenAI(config OpenAIConfig) *RegistryBuilder {
	provider, err := NewOpenAIProvider(config)
	return b.add("openai", provider, err)
}

// WithGoogle adds a Google provider
func (b *RegistryBuilder) WithGoogle(config GoogleConfig) *RegistryBuilder {
	provider, err := NewGoogleProvider(b.ctx, config)
	return b.add("google", provider, err)
}

// WithProvider adds an already constructed provider
func (b *RegistryBuilder) WithProvider(provider Provider) *RegistryBuilder {
	return b.add(provider.Name(), provider, nil)
}

// WithDefault sets the default provider
func (b *RegistryBuilder) WithDefault(providerType ProviderType) *RegistryBuilder {
	if err := b.registry.SetDefault(providerType); err != nil {
		b.errors = append(b.errors, fmt.Errorf("default: %w", err))
	}
	return b
}

// Build returns the configured registry. Errors carry their tier, so a
// missing API key still reads as user-fixable.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("registry build: %w", errors.Join(b.errors...))
	}
	return b.registry, nil
}
