package tool

import (
	"fmt"

	"github.com/hupe1980/reactloop/core"
	"github.com/hupe1980/reactloop/internal/schema"
	"github.com/hupe1980/reactloop/model"
)

// Registry is the immutable, name-indexed set of capabilities an agent may
// invoke. It is built once at construction time and safe for concurrent reads.
type Registry struct {
	tools map[string]Tool
	order []string // Registration order, used for transport definitions
}

// NewRegistry indexes tools by name. Nil tools, empty names, invalid schemas
// and duplicate names are configuration errors.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
		order: make([]string, 0, len(tools)),
	}

	for i, t := range tools {
		if t == nil {
			return nil, core.NewConfigurationError(fmt.Sprintf("tool at index %d is nil", i), nil)
		}
		name := t.Name()
		if name == "" {
			return nil, core.NewConfigurationError(fmt.Sprintf("tool at index %d has an empty name", i), nil)
		}
		if _, dup := r.tools[name]; dup {
			return nil, core.NewConfigurationError(fmt.Sprintf("duplicate tool name %q", name), nil)
		}
		if err := t.Schema().Validate(); err != nil {
			return nil, core.NewConfigurationError(fmt.Sprintf("tool %q has an invalid schema", name), err)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}

	return r, nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tools)
}

// Definitions renders every tool for the model transport, in registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	if r == nil || len(r.order) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        name,
			Description: t.Description(),
			Parameters:  t.Schema().JSONSchema(),
		})
	}
	return defs
}

// Bind checks decoded arguments against t's schema and converts them to
// their Go representation. Failures are ARGUMENT_BINDING_ERRORs.
func Bind(t Tool, raw map[string]any) (Args, error) {
	bound, err := schema.Bind(raw, t.Schema().JSONSchema())
	if err != nil {
		return nil, core.NewArgumentBindingError(t.Name(), err)
	}
	return Args(bound), nil
}
