package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultDir returns the default configuration directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".shellcraft")
	}
	return filepath.Join(home, ".config", "shellcraft")
}

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path), path)
}

// LoadFs loads the configuration from the root of fsys. dir is recorded as
// the on-disk location of fsys and may be empty.
func LoadFs(fsys afero.Fs, dir string) (*Configuration, error) {
	configContents, err := afero.ReadFile(fsys, ConfigurationName)
	if err != nil {
		return nil, err
	}

	out, err := parse(configContents)
	if err != nil {
		return nil, err
	}
	out.configurationDir = dir
	out.configFs = fsys
	return out, nil
}

// LoadOrInitialize loads the configuration in path, creating it first if it
// doesn't exist.
func LoadOrInitialize(path string, logger *log.Logger) (*Configuration, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Initialize(path, logger)
	}
	return cfg, err
}
