// Package descriptor reads the JSON instance descriptor that the database
// container writes once the instance is provisioned.
package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/giantswarm/adbenv/internal/fileutil"
	"github.com/giantswarm/adbenv/internal/sentinel"
	"golang.org/x/sync/singleflight"
)

// ErrDescriptorRead is returned when the descriptor file is missing, empty or
// not a valid descriptor.
const ErrDescriptorRead = sentinel.Error("cannot read instance descriptor")

// InstanceConfig holds the live connection parameters of a provisioned instance.
type InstanceConfig struct {
	ConnectionString string `json:"connectionString"`
	WebConsoleURL    string `json:"sqlDevWebUrl"`
}

// Path returns the descriptor location for databaseName inside dir.
func Path(dir, databaseName string) string {
	return filepath.Join(dir, databaseName+".json")
}

// Prepare makes sure the descriptor file exists so it can be bind-mounted into
// the container. Existing content is left untouched: a reused instance may
// already have written it.
func Prepare(path string) error {
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return err
	}
	if err := fileutil.Touch(path); err != nil {
		return fmt.Errorf("prepare descriptor: %w", err)
	}
	return nil
}

// Load decodes the descriptor at path.
func Load(path string) (InstanceConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is derived from configuration
	if err != nil {
		return InstanceConfig{}, fmt.Errorf("%w: %w", ErrDescriptorRead, err)
	}

	var cfg InstanceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return InstanceConfig{}, fmt.Errorf("%w: decode %s: %w", ErrDescriptorRead, path, err)
	}
	if cfg.ConnectionString == "" {
		return InstanceConfig{}, fmt.Errorf("%w: %s has no connectionString", ErrDescriptorRead, path)
	}
	return cfg, nil
}

// Loader loads a descriptor on first use and caches it. Failed loads are not
// cached, so a caller may retry once the container has written the file.
// Concurrent first loads share one read.
type Loader struct {
	path   string
	cached atomic.Pointer[InstanceConfig]
	group  singleflight.Group
}

// NewLoader returns a Loader for the descriptor at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the descriptor file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns the cached descriptor, loading it if needed.
func (l *Loader) Get() (InstanceConfig, error) {
	if cfg := l.cached.Load(); cfg != nil {
		return *cfg, nil
	}

	v, err, _ := l.group.Do(l.path, func() (any, error) {
		if cfg := l.cached.Load(); cfg != nil {
			return *cfg, nil
		}
		cfg, err := Load(l.path)
		if err != nil {
			return nil, err
		}
		l.cached.Store(&cfg)
		return cfg, nil
	})
	if err != nil {
		return InstanceConfig{}, err
	}
	return v.(InstanceConfig), nil //nolint:forcetypeassert // the closure only returns InstanceConfig
}
