package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/shared/types"
)

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error)
}

// Registry manages service providers. It is explicitly constructed and
// owned by the server; there is no package-level instance.
type Registry struct {
	services sync.Map
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	r.services.Store(def.ID, provider)
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered service definitions, sorted by id.
func (r *Registry) List() []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		services = append(services, value.(Provider).Definition())
		return true
	})
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Execute routes a tool call ("service.operation") to its provider.
// Routing and provider failures alike come back as failed results with a
// message; there is no separate error return.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) *types.Result {
	serviceID, _, found := strings.Cut(toolID, ".")
	if !found {
		return types.Failure(fmt.Sprintf("invalid tool ID format: %s", toolID))
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return types.Failure(fmt.Sprintf("service not found: %s", serviceID))
	}

	result, err := provider.Execute(ctx, toolID, params, execCtx)
	if err != nil {
		return types.Failure(fmt.Sprintf("%s failed: %v", toolID, err))
	}
	if result == nil {
		return types.Failure(fmt.Sprintf("%s returned no result", toolID))
	}
	return result
}
