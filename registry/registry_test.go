package registry

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orecstm/core/txn"
)

type fakeVariant struct {
	switched bool
}

func (f *fakeVariant) Begin(*txn.Descriptor)      {}
func (f *fakeVariant) Commit(*txn.Descriptor) bool { return true }
func (f *fakeVariant) Irrevoc(*txn.Descriptor) bool { return false }
func (f *fakeVariant) OnSwitchTo()                  { f.switched = true }

func TestRegisterAndLookup(t *testing.T) {
	v := &fakeVariant{}
	Register("test-variant", v)

	got, ok := Lookup("test-variant")
	require.True(t, ok)
	assert.Same(t, v, got)
}

func TestSelectDefaultsWhenEnvUnset(t *testing.T) {
	os.Unsetenv(EnvVariant)
	v := &fakeVariant{}
	Register(DefaultVariantName, v)

	got, err := Select()
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.True(t, v.switched, "Select must invoke OnSwitchTo on the resolved variant")
}

func TestSelectHonorsEnvOverride(t *testing.T) {
	v := &fakeVariant{}
	Register("my-custom-variant", v)
	os.Setenv(EnvVariant, "my-custom-variant")
	defer os.Unsetenv(EnvVariant)

	got, err := Select()
	require.NoError(t, err)
	assert.Same(t, v, got)
}

func TestSelectErrorsOnUnknownVariant(t *testing.T) {
	os.Setenv(EnvVariant, "does-not-exist")
	defer os.Unsetenv(EnvVariant)

	_, err := Select()
	require.Error(t, err)
}

func TestNamesIsSorted(t *testing.T) {
	Register("zzz-variant", &fakeVariant{})
	Register("aaa-variant", &fakeVariant{})

	names := Names()
	require.Contains(t, names, "zzz-variant")
	require.Contains(t, names, "aaa-variant")
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}
