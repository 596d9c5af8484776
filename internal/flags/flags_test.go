package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_NilMap(t *testing.T) {
	r := New(nil)
	require.NotNil(t, r)
	require.False(t, r.Enabled(FlagWheelInvert))
}

func TestEnabled(t *testing.T) {
	r := New(map[string]bool{
		FlagWheelInvert:      true,
		FlagCrosshairDefault: false,
	})

	require.True(t, r.Enabled(FlagWheelInvert))
	require.False(t, r.Enabled(FlagCrosshairDefault))
	require.False(t, r.Enabled("never-heard-of-it"))
}

func TestEnabled_NilRegistry(t *testing.T) {
	var r *Registry
	require.False(t, r.Enabled(FlagWheelInvert))
}

func TestAll_ReturnsCopy(t *testing.T) {
	r := New(map[string]bool{FlagWheelInvert: true})

	all := r.All()
	all[FlagWheelInvert] = false

	require.True(t, r.Enabled(FlagWheelInvert))
}
