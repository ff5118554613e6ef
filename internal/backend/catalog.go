package backend

import (
	"context"
	"fmt"
	"sort"

	"github.com/ssmithers/aidebate/internal/core"
)

// ModelConfig describes one model alias known to the system.
type ModelConfig struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name,omitempty" json:"name"`
	Class       core.ModelClass `yaml:"class" json:"type"`
	Temperature float64         `yaml:"temperature,omitempty" json:"temperature"`
	MaxTokens   int             `yaml:"max_tokens,omitempty" json:"max_tokens"`
}

// Catalog maps model aliases to their configuration.
type Catalog map[string]ModelConfig

// Lookup returns the configuration for an alias.
func (c Catalog) Lookup(alias string) (ModelConfig, bool) {
	cfg, ok := c[alias]
	return cfg, ok
}

// Aliases returns all known aliases in sorted order.
func (c Catalog) Aliases() []string {
	aliases := make([]string, 0, len(c))
	for alias := range c {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Client routes completion calls to the right backend for a model alias.
type Client struct {
	catalog Catalog
	local   Completer
	hosted  Completer
}

// NewClient creates a routing client over a local and a hosted backend.
func NewClient(catalog Catalog, local, hosted Completer) *Client {
	return &Client{
		catalog: catalog,
		local:   local,
		hosted:  hosted,
	}
}

// Catalog returns the client's model catalog.
func (c *Client) Catalog() Catalog {
	return c.catalog
}

// Lookup returns the configuration for an alias.
func (c *Client) Lookup(alias string) (ModelConfig, bool) {
	return c.catalog.Lookup(alias)
}

// Complete resolves an alias and dispatches the completion call. Temperature
// and max tokens fall back to the alias defaults when the caller passes zero.
func (c *Client) Complete(ctx context.Context, alias string, messages []core.Message, temperature float64, maxTokens int) (Result, error) {
	cfg, ok := c.catalog.Lookup(alias)
	if !ok {
		return Result{}, fmt.Errorf("unknown model alias: %s", alias)
	}

	if temperature <= 0 {
		temperature = cfg.Temperature
	}
	if maxTokens <= 0 {
		maxTokens = cfg.MaxTokens
	}

	backend := c.local
	if cfg.Class == core.ClassHosted {
		backend = c.hosted
	}
	if backend == nil {
		return Result{}, fmt.Errorf("no %s backend configured for alias %s", cfg.Class, alias)
	}

	return backend.Complete(ctx, cfg.ID, messages, temperature, maxTokens)
}
