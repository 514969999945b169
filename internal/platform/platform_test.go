package platform

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyFromGOOS(t *testing.T) {
	cases := map[string]Family{
		"linux":   Linux,
		"darwin":  Darwin,
		"windows": Windows,
		"freebsd": FreeBSD,
		"openbsd": OpenBSD,
		"netbsd":  NetBSD,
		"solaris": Solaris,
		"aix":     AIX,
	}
	for goos, want := range cases {
		family, ok := FamilyFromGOOS(goos)
		require.True(t, ok, goos)
		assert.Equal(t, want, family)
		assert.Equal(t, goos, family.String())
	}
}

func TestFamilyFromGOOSUnknown(t *testing.T) {
	_, ok := FamilyFromGOOS("plan9")
	assert.False(t, ok)

	_, ok = FamilyFromGOOS("")
	assert.False(t, ok)
}

func TestDetectMatchesRuntime(t *testing.T) {
	family, err := Detect()
	require.NoError(t, err)
	assert.Equal(t, runtime.GOOS, family.String())
}

func TestSelect(t *testing.T) {
	sel := NewSelector(Linux)
	variants := map[string]string{
		"linux":   "test-linux",
		"darwin":  "test-macos",
		"windows": "test-windows",
	}

	concrete, err := sel.Select("test-platform", variants)
	require.NoError(t, err)
	assert.Equal(t, "test-linux", concrete)

	// Same inputs, same answer.
	again, err := sel.Select("test-platform", variants)
	require.NoError(t, err)
	assert.Equal(t, concrete, again)
}

func TestSelectMissingVariant(t *testing.T) {
	sel := NewSelector(AIX)
	variants := map[string]string{"linux": "test-linux", "darwin": "test-macos"}

	_, err := sel.Select("test-platform", variants)
	require.Error(t, err)

	var platformErr *UnsupportedPlatformError
	require.True(t, errors.As(err, &platformErr))
	assert.Equal(t, "test-platform", platformErr.Task)
	assert.Equal(t, "aix", platformErr.Family)
	assert.Equal(t, []string{"darwin", "linux"}, platformErr.Variants)
	assert.Contains(t, err.Error(), "test-platform")
}

func TestUnsupportedGOOSError(t *testing.T) {
	err := &UnsupportedPlatformError{GOOS: "plan9"}
	assert.Contains(t, err.Error(), "plan9")
}
