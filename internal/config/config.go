// Package config resolves the small set of environment-driven knobs
// Service and the storage backends need: database location, a clock
// override for deterministic tests, lock contention timeout, and the
// default actor name stamped onto events.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Keys are the viper setting names, also usable with Get/GetString below.
const (
	KeyDBPath      = "db_path"
	KeyNow         = "now"
	KeyLockTimeout = "lock_timeout"
	KeyActor       = "actor"
)

const (
	defaultDBPath      = ".beads/issues.db"
	defaultLockTimeout = 5 * time.Second
	defaultActor       = "bd"

	// envPrefix makes BD_DB_PATH bind to db_path, BD_LOCK_TIMEOUT to
	// lock_timeout, and so on, through viper's SetEnvPrefix + AutomaticEnv,
	// which upper-case the key and add the prefix.
	envPrefix = "BD"
)

// v is the package-level viper instance, following the singleton-plus-
// Initialize convention the rest of this codebase's config layer uses.
var v *viper.Viper

// Initialize sets up defaults, binds BD_*/BEADS_* environment variables,
// and optionally layers in a config.yaml discovered by walking up from the
// current directory. It is safe to call more than once; each call starts
// from a fresh viper instance.
func Initialize() error {
	v = viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(KeyDBPath, defaultDBPath)
	v.SetDefault(KeyLockTimeout, defaultLockTimeout)
	v.SetDefault(KeyActor, defaultActor)

	if path, err := findConfigFile(); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// BEADS_ACTOR is an accepted alias for BD_ACTOR, matching the rest of
	// the codebase's BEADS_-prefixed override convention.
	if actor := os.Getenv("BEADS_ACTOR"); actor != "" {
		v.Set(KeyActor, actor)
	}

	return nil
}

func findConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := cwd; ; {
		candidate := filepath.Join(dir, ".beads", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no .beads/config.yaml found")
}

// ensure lazily initializes v so package functions work even if a caller
// forgets to call Initialize explicitly (tests, one-off tools).
func ensure() *viper.Viper {
	if v == nil {
		_ = Initialize()
	}
	return v
}

// DBPath resolves BD_DB_PATH, defaulting to ./.beads/issues.db relative to
// the directory discovered by findConfigFile, or the literal default if
// none was found.
func DBPath() string {
	p := ensure().GetString(KeyDBPath)
	if p != defaultDBPath {
		return p
	}
	if cfg, err := findConfigFile(); err == nil {
		return filepath.Join(filepath.Dir(cfg), "issues.db")
	}
	return defaultDBPath
}

// LockTimeout resolves BD_LOCK_TIMEOUT, the busy_timeout bound Store
// backends apply before surfacing storage.ErrBusy.
func LockTimeout() time.Duration {
	return ensure().GetDuration(KeyLockTimeout)
}

// Actor resolves BD_ACTOR/BEADS_ACTOR, the default actor name stamped onto
// events when a caller doesn't supply one explicitly.
func Actor() string {
	return ensure().GetString(KeyActor)
}

// Now resolves BD_NOW if set, for deterministic tests that need to pin the
// clock; ok is false when unset and callers should use time.Now().
func Now() (t time.Time, ok bool) {
	raw := ensure().GetString(KeyNow)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
