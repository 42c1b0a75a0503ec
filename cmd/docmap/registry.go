package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/docmap/docmap/types"
)

// registry persists entity descriptors in a YAML file. Concurrent docmap
// invocations may read and edit the same registry, so every access goes
// through an advisory file lock next to the registry file.
type registry struct {
	path string
}

// registryFile is the on-disk layout of the schema registry.
type registryFile struct {
	Schemas []types.Descriptor `yaml:"schemas"`
}

func defaultSchemasPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "docmap", "schemas.yaml")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "docmap", "schemas.yaml")
	}
	return filepath.Join(homeDir, ".config", "docmap", "schemas.yaml")
}

func openRegistry(path string) *registry {
	return &registry{path: path}
}

// load reads all descriptors under a shared lock. A missing registry file
// is an empty registry, not an error.
func (r *registry) load() ([]types.Descriptor, error) {
	lock := flock.New(r.path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock registry: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return file.Schemas, nil
}

// update applies fn to the descriptor list under an exclusive lock and
// writes the result back atomically.
func (r *registry) update(fn func([]types.Descriptor) ([]types.Descriptor, error)) error {
	lock := flock.New(r.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock registry: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	var file registryFile
	data, err := os.ReadFile(r.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read registry: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse registry: %w", err)
		}
	}

	schemas, err := fn(file.Schemas)
	if err != nil {
		return err
	}
	file.Schemas = schemas

	out, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}

// find returns the descriptor with the given name.
func (r *registry) find(name string) (types.Descriptor, error) {
	schemas, err := r.load()
	if err != nil {
		return types.Descriptor{}, err
	}
	for _, d := range schemas {
		if d.Name == name {
			return d, nil
		}
	}
	return types.Descriptor{}, fmt.Errorf("schema %q not found in %s", name, r.path)
}
