// Package registry selects which STM algorithm implementation is active,
// by name, with environment-variable override. It exists so that
// additional algorithm variants can be added beside OrecEager later
// without touching any caller that only knows about the Variant
// interface.
package registry

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/orecstm/core/txn"
)

// EnvVariant is the environment variable consulted by Select.
const EnvVariant = "ORECSTM_VARIANT"

// DefaultVariantName is used when EnvVariant is unset or empty.
const DefaultVariantName = "orec-eager"

// Variant is the non-generic surface every algorithm implementation
// exposes. Read and Write are generic and cannot appear in a Go
// interface, so callers that need them type-assert the concrete Runtime
// back out after selecting it; Variant covers the operations that don't
// depend on a TVar's element type.
type Variant interface {
	Begin(d *txn.Descriptor)
	Commit(d *txn.Descriptor) bool
	Irrevoc(d *txn.Descriptor) bool
	OnSwitchTo()
}

var (
	mu       sync.RWMutex
	variants = make(map[string]Variant)
)

// Register makes a Variant available under name. Calling Register twice
// with the same name replaces the previous registration; this is useful
// in tests that want to swap in a fake Variant.
func Register(name string, v Variant) {
	mu.Lock()
	defer mu.Unlock()
	variants[name] = v
}

// Names returns every registered variant name, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the variant registered under name, if any.
func Lookup(name string) (Variant, bool) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := variants[name]
	return v, ok
}

// Select resolves the active variant from the ORECSTM_VARIANT environment
// variable, falling back to DefaultVariantName when it is unset or empty.
// It calls OnSwitchTo on the resolved variant before returning it.
func Select() (Variant, error) {
	name := os.Getenv(EnvVariant)
	if name == "" {
		name = DefaultVariantName
	}
	v, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("registry: no variant registered under %q (have %v)", name, Names())
	}
	v.OnSwitchTo()
	return v, nil
}
