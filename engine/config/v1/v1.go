// Implements version 1 of the settings parser.
//
// It applies these defaults:
//   - bitLength: 2048
//   - rounds: 10
//   - logLevel: warning
//   - keyName: id_rsa
package v1

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/santhosh-tekuri/jsonschema"

	"github.com/wokdav/gorsa/engine/config"
	"github.com/wokdav/gorsa/logging"
)

//go:embed settings.json
var settingsSchemaString string

//go:embed settings-example.yaml
var settingsExample string

var settingsSchema *jsonschema.Schema

func compileSchema(name, schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	err := compiler.AddResource(name, strings.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("schema: error adding schema %v: %v", name, err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("schema: error compiling schema %v: %v", name, err)
	}

	return compiled, nil
}

func init() {
	var err error
	settingsSchema, err = compileSchema("settings.json", settingsSchemaString)
	if err != nil {
		panic(err)
	}

	config.AddConfigurator(1, V1Configurator{})
}

// Struct for YAML/JSON marshaling.
type SettingsConfig struct {
	Version    int    `json:"version"`
	BitLength  int    `json:"bitLength"`
	Rounds     int    `json:"rounds"`
	DebugSizes bool   `json:"debugSizes"`
	LogLevel   string `json:"logLevel"`
	KeyName    string `json:"keyName"`
}

type V1Configurator struct{}

// Implements ParseConfiguration from [config.Configurator].
// The input is validated against the embedded JSON schema before the
// defaults are applied.
func (v V1Configurator) ParseConfiguration(s string) (*config.Settings, error) {
	js, err := yaml.YAMLToJSON([]byte(s))
	if err != nil {
		return nil, err
	}

	err = settingsSchema.Validate(bytes.NewBuffer(js))
	if err != nil {
		return nil, err
	}

	cfg := SettingsConfig{}
	err = yaml.Unmarshal(js, &cfg)
	if err != nil {
		return nil, err
	}

	return initSettings(cfg)
}

func initSettings(cfg SettingsConfig) (*config.Settings, error) {
	out := config.Default()

	if cfg.BitLength != 0 {
		out.BitLength = cfg.BitLength
	}
	if cfg.Rounds != 0 {
		out.Rounds = cfg.Rounds
	}
	if cfg.KeyName != "" {
		out.KeyName = cfg.KeyName
	}
	out.DebugSizes = cfg.DebugSizes

	if cfg.LogLevel != "" {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		out.LogLevel = level
	}

	if out.BitLength == 64 && !out.DebugSizes {
		return nil, fmt.Errorf("config-v1: bitLength 64 requires debugSizes to be set")
	}

	return out, nil
}

// Implements SettingsExample from [config.Configurator].
func (v V1Configurator) SettingsExample() string {
	return settingsExample
}
