package capability

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-reflect"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/loader"
)

var (
	// ErrInvalidRegistration reports an empty name or a nil implementation.
	ErrInvalidRegistration = errors.New("capability: invalid registration")

	// ErrAlreadyRegistered reports a second registration under one name.
	ErrAlreadyRegistered = errors.New("capability: already registered")
)

// Key is a typed handle for one capability. Registering and looking up
// through the same Key keeps the implementation's type checked at compile
// time.
type Key[T any] struct {
	name string
}

// NewKey creates a key for the capability called name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: strings.TrimSpace(name)}
}

// Name returns the capability name.
func (k Key[T]) Name() string { return k.name }

// Registry maps capability names to loaded implementations. It replaces
// process-wide globals: the application builds one and hands it to whoever
// needs a capability.
type Registry struct {
	mu    sync.RWMutex
	impls map[string]any
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{impls: make(map[string]any)}
}

// Register adds impl under key. A name can be registered once until it is
// unregistered.
func Register[T any](r *Registry, key Key[T], impl T) error {
	return r.add(key.name, impl)
}

// Lookup returns the implementation registered under key. It reports false
// when nothing is registered or the stored value is not a T.
func Lookup[T any](r *Registry, key Key[T]) (T, bool) {
	r.mu.RLock()
	v, ok := r.impls[key.name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Available reports whether name is registered.
func (r *Registry) Available(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.impls[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.impls))
	for name := range r.impls {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Ordered returns the registered names in registration order.
func (r *Registry) Ordered() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Unregister removes name. It is a no-op for unknown names.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.impls[name]; !ok {
		return
	}
	delete(r.impls, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// RegisterLoaded registers every module that loaded in res. Modules that
// failed stay absent so callers fall back to running without them. Names
// already registered are reported in the returned error and left as they
// were.
func (r *Registry) RegisterLoaded(res loader.PreloadResult) error {
	names := make([]string, 0, len(res.Results))
	for name := range res.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := r.add(name, res.Results[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) add(name string, impl any) error {
	name = strings.TrimSpace(name)
	if name == "" || isNil(impl) {
		return fmt.Errorf("%w: name %q", ErrInvalidRegistration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.impls[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.impls[name] = impl
	r.order = append(r.order, name)
	return nil
}

// isNil reports whether v is nil or a typed nil such as a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
