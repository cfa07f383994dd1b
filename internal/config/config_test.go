package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func envSnapshot(t *testing.T) func() {
	t.Helper()
	saved := make(map[string]string)
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "BD_") || strings.HasPrefix(env, "BEADS_") {
			parts := strings.SplitN(env, "=", 2)
			saved[parts[0]] = os.Getenv(parts[0])
			os.Unsetenv(parts[0])
		}
	}
	return func() {
		for _, env := range os.Environ() {
			if strings.HasPrefix(env, "BD_") || strings.HasPrefix(env, "BEADS_") {
				os.Unsetenv(strings.SplitN(env, "=", 2)[0])
			}
		}
		for key, val := range saved {
			os.Setenv(key, val)
		}
	}
}

func TestInitializeDefaults(t *testing.T) {
	defer envSnapshot(t)()
	require.NoError(t, Initialize())
	require.Equal(t, defaultDBPath, DBPath())
	require.Equal(t, defaultLockTimeout, LockTimeout())
	require.Equal(t, defaultActor, Actor())
	_, ok := Now()
	require.False(t, ok)
}

func TestDBPathEnvOverride(t *testing.T) {
	defer envSnapshot(t)()
	os.Setenv("BD_DB_PATH", "/tmp/custom/issues.db")
	require.NoError(t, Initialize())
	require.Equal(t, "/tmp/custom/issues.db", DBPath())
}

func TestLockTimeoutEnvOverride(t *testing.T) {
	defer envSnapshot(t)()
	os.Setenv("BD_LOCK_TIMEOUT", "15s")
	require.NoError(t, Initialize())
	require.Equal(t, 15*time.Second, LockTimeout())
}

func TestActorEnvOverride(t *testing.T) {
	defer envSnapshot(t)()
	os.Setenv("BD_ACTOR", "alice")
	require.NoError(t, Initialize())
	require.Equal(t, "alice", Actor())
}

func TestBeadsActorAliasOverridesBDActor(t *testing.T) {
	defer envSnapshot(t)()
	os.Setenv("BD_ACTOR", "alice")
	os.Setenv("BEADS_ACTOR", "bob")
	require.NoError(t, Initialize())
	require.Equal(t, "bob", Actor())
}

func TestNowEnvOverride(t *testing.T) {
	defer envSnapshot(t)()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	os.Setenv("BD_NOW", fixed.Format(time.RFC3339Nano))
	require.NoError(t, Initialize())
	got, ok := Now()
	require.True(t, ok)
	require.True(t, fixed.Equal(got))
}

func TestNowInvalidFormatIsIgnored(t *testing.T) {
	defer envSnapshot(t)()
	os.Setenv("BD_NOW", "not-a-timestamp")
	require.NoError(t, Initialize())
	_, ok := Now()
	require.False(t, ok)
}
