package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Hub runs registered services through Init, Start and Stop in dependency order
type Hub struct {
	mu       sync.Mutex
	services map[string]Service
	order    []string // resolved by InitAll, reset by Register
	running  []string // started services, stopped in reverse
}

// NewHub creates an empty service hub
func NewHub() *Hub {
	return &Hub{services: make(map[string]Service)}
}

// Register adds a service; names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, dup := h.services[name]; dup {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.services[name] = svc
	h.order = nil
	return nil
}

// InitAll resolves the dependency order and calls Init on every service,
// passing args[name]. A failure stops what was already initialized
func (h *Hub) InitAll(args map[string][]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order, err := h.resolve()
	if err != nil {
		return err
	}
	h.order = order

	done, err := h.each(order, "init", func(svc Service) error { return svc.Init(args[svc.Name()]...) })
	if err != nil {
		h.unwind(done)
	}
	return err
}

// StartAll starts services in dependency order. A failure stops what was already started
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		return errors.New("services not initialized")
	}
	done, err := h.each(h.order, "start", Service.Start)
	if err != nil {
		h.unwind(done)
		return err
	}
	h.running = done
	return nil
}

// StopAll stops running services in reverse order, collecting every error.
// A second call is a no-op
func (h *Hub) StopAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	errs := h.unwind(h.running)
	h.running = nil
	return errors.Join(errs...)
}

// each applies fn along names and returns the prefix that succeeded
func (h *Hub) each(names []string, phase string, fn func(Service) error) ([]string, error) {
	for i, name := range names {
		if err := fn(h.services[name]); err != nil {
			return names[:i], fmt.Errorf("service %s %s failed: %w", name, phase, err)
		}
	}
	return names, nil
}

func (h *Hub) unwind(names []string) []error {
	var errs []error
	for _, name := range slices.Backward(names) {
		if err := h.services[name].Stop(); err != nil {
			errs = append(errs, fmt.Errorf("service %s stop failed: %w", name, err))
		}
	}
	return errs
}

// resolve orders services so each follows its dependencies, visiting names
// alphabetically for a stable result
func (h *Hub) resolve() ([]string, error) {
	const (
		visiting = 1
		visited  = 2
	)
	state := make(map[string]int, len(h.services))
	order := make([]string, 0, len(h.services))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("circular dependency detected in services: %v", append(path, name))
		}
		state[name] = visiting
		deps := slices.Sorted(slices.Values(h.services[name].Dependencies()))
		for _, dep := range deps {
			if _, ok := h.services[dep]; !ok {
				return fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, name)
		return nil
	}

	names := make([]string, 0, len(h.services))
	for name := range h.services {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}
