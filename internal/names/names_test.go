package names

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	require.Equal(t, "Juan Pérez", FullName("Juan", "Pérez"))
	require.Equal(t, "Juan", FullName("  Juan  ", ""))
	require.Equal(t, "Pérez", FullName("", "Pérez"))
	require.Equal(t, "", FullName("", ""))
	require.Equal(t, "", FullName("   ", "\t"))
}

func TestFullNameSplitRoundTrip(t *testing.T) {
	for _, name := range []string{
		"John Doe",
		"Juan Pérez",
		"Mary Jane Watson",
		"Cher",
	} {
		first, last := Split(name)
		require.Equal(t, name, FullName(first, last), "round trip for %q", name)
	}
}

func TestEnsureName(t *testing.T) {
	require.Equal(t, "Juan Pérez", EnsureName("Juan", "Pérez", "stale value"))
	require.Equal(t, "Juan", EnsureName("Juan", "", "stale value"))
	// No parts at all: record is returned unchanged.
	require.Equal(t, "Legacy Name", EnsureName("", "", "Legacy Name"))
}

func TestConsistent(t *testing.T) {
	require.True(t, Consistent("Juan", "Pérez", "Juan Pérez"))
	require.False(t, Consistent("Juan", "Pérez", "Juan Perez"))
	require.False(t, Consistent("Juan", "Pérez", ""))

	// Missing either part is vacuously consistent.
	require.True(t, Consistent("Juan", "", "anything"))
	require.True(t, Consistent("", "Pérez", "anything"))
	require.True(t, Consistent("", "", "anything"))
}

func TestSplit(t *testing.T) {
	first, last := Split("John Doe")
	require.Equal(t, "John", first)
	require.Equal(t, "Doe", last)

	first, last = Split("Mary Jane Watson")
	require.Equal(t, "Mary", first)
	require.Equal(t, "Jane Watson", last)

	first, last = Split("  Cher  ")
	require.Equal(t, "Cher", first)
	require.Empty(t, last)

	first, last = Split("")
	require.Empty(t, first)
	require.Empty(t, last)
}
