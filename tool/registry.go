package tool

import "sync"

// Registry maps tool names to tools for one agent run. Registration order is
// preserved so prompt rendering is deterministic. When an allow-list is set,
// only the listed names may be registered; others are skipped.
//
// Registry is safe for concurrent reads; the run sets it up once before the
// loop starts.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	tools   map[string]Tool
	allowed map[string]bool
}

// NewRegistry creates an empty registry. With no allowed names, every tool
// may be registered; otherwise registration is restricted to the listed
// names.
func NewRegistry(allowed ...string) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	if len(allowed) > 0 {
		r.allowed = make(map[string]bool, len(allowed))
		for _, name := range allowed {
			r.allowed[name] = true
		}
	}
	return r
}

// Register adds a tool. It fails with *DuplicateError if the name is taken.
// Tools outside the allow-list are skipped without error, so a full catalog
// can be registered against a restricted run.
func (r *Registry) Register(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tools {
		name := t.Name()
		if r.allowed != nil && !r.allowed[name] {
			continue
		}
		if _, exists := r.tools[name]; exists {
			return &DuplicateError{Name: name}
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tools ...Tool) {
	if err := r.Register(tools...); err != nil {
		panic(err)
	}
}

// Get retrieves a tool by name. It fails with *UnknownError if absent.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownError{Name: name}
	}
	return t, nil
}

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Init binds every registered tool to the environment.
func (r *Registry) Init(env *Environment) error {
	for _, t := range r.Tools() {
		if err := t.Init(env); err != nil {
			return err
		}
	}
	return nil
}
