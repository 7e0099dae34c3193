// Package config holds the user-editable configuration for gosh, stored as
// a YAML file inside a configuration directory.
package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	HostKeyName       = "host_key"
	SessionLogName    = "session.log"
)

type Configuration struct {
	configFs afero.Fs

	// Prompt is the PS1 fallback. It understands \u, \h, \w and \$.
	Prompt string `json:"prompt"`

	// HistoryFile is the HISTFILE fallback, relative to $HOME.
	HistoryFile string `json:"history_file"`

	// DefaultPath seeds PATH when the environment doesn't provide one.
	DefaultPath string `json:"default_path" validate:"required"`

	// SessionLog enables JSON-lines command logging into the config
	// directory.
	SessionLog bool `json:"session_log"`

	SSH SSH `json:"ssh"`
}

type SSH struct {
	// Addr is the listen address for `gosh serve`.
	Addr string `json:"addr" validate:"required"`
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

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenSessionLog opens the session log in an append only state.
func (c *Configuration) OpenSessionLog() (afero.File, error) {
	return c.fs().OpenFile(SessionLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadSessionLog opens the session log for reading.
func (c *Configuration) ReadSessionLog() (afero.File, error) {
	return c.fs().OpenFile(SessionLogName, os.O_RDONLY, 0600)
}

// HostKeyPem returns the bytes of the SSH host key.
func (c *Configuration) HostKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), HostKeyName)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration rooted at the given directory.
func Default(dir string) *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewBasePathFs(afero.NewOsFs(), dir)
	return out
}
