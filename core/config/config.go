package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	HistoryName       = "history"
	LearnedName       = "learned_commands.yaml"
	EventLogName      = "events.log"

	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configurationDir string
	configFs         afero.Fs

	Prompt       string `json:"prompt" validate:"required"`
	Color        string `json:"color" validate:"oneof=auto always never"`
	Autocorrect  bool   `json:"autocorrect"`
	Trace        bool   `json:"trace"`
	HistoryLimit int    `json:"history_limit" validate:"gte=0"`

	Aliases       map[string]string `json:"aliases" validate:"dive,keys,required,endkeys,required"`
	ExtraCommands []string          `json:"extra_commands" validate:"unique,dive,required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Fs returns the filesystem rooted at the configuration directory.
func (c *Configuration) Fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// Dir returns the configuration directory, it's empty for in-memory
// configurations.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// HistoryPath is the on-disk path of the readline history file, it's empty
// for in-memory configurations.
func (c *Configuration) HistoryPath() string {
	if c.configurationDir == "" {
		return ""
	}
	return filepath.Join(c.configurationDir, HistoryName)
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.Fs().OpenFile(EventLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.Fs().OpenFile(EventLogName, os.O_RDONLY, 0600)
}

// DefaultConfig returns the built-in configuration backed by an in-memory
// filesystem.
func DefaultConfig() *Configuration {
	out, err := parse(defaultConfigData)
	if err != nil {
		panic(err)
	}
	out.configFs = afero.NewMemMapFs()
	return out
}

func parse(data []byte) (*Configuration, error) {
	var out Configuration
	if err := yaml.UnmarshalStrict(data, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
