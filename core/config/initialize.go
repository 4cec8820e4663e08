package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize creates the configuration directory at path with the default
// configuration and loads it. Existing files are left alone.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	logger.Printf("Initializing configuration in %s\n", path)
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	fsys := afero.NewBasePathFs(afero.NewOsFs(), path)
	if err := InitializeFs(fsys, logger); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return LoadFs(fsys, abs)
}

// InitializeFs writes the default configuration to the root of fsys.
func InitializeFs(fsys afero.Fs, logger *log.Logger) error {
	exists, err := afero.Exists(fsys, ConfigurationName)
	if err != nil {
		return err
	}
	if exists {
		logger.Printf("- %s exists, skipping\n", ConfigurationName)
		return nil
	}

	logger.Printf("- Writing %s\n", ConfigurationName)
	return afero.WriteFile(fsys, ConfigurationName, defaultConfigData, 0600)
}
