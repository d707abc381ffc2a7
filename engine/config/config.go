// Package config provides the settings of the key tool. It supports
// configuration versioning, having each implementation register itself in
// this package. Callers should only use this package and ignore the
// underlying implementations, which in turn must not be imported here to
// avoid circular imports.
//
// Every implementation reads YAML or JSON whose topmost element is a map with
// an integer property named 'version'. This lets [ParseConfig] pick the
// implementation on its own.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/wokdav/gorsa/logging"
)

var ErrUnknownVersion = errors.New("config: unknown version")

var configurators map[int]Configurator = make(map[int]Configurator, 1)

// Configuration implementations register themselves using this function.
// Keep version > 0 so that a missing version field is never valid.
func AddConfigurator(version int, c Configurator) {
	configurators[version] = c
}

// Get configurator for the supplied version.
// Returns an error, if this version does not exist (yet).
func GetConfigurator(version int) (Configurator, error) {
	c, ok := configurators[version]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	return c, nil
}

// LatestVersion is the highest registered version, 0 if there is none.
func LatestVersion() int {
	latest := 0
	for v := range configurators {
		latest = max(latest, v)
	}
	return latest
}

// A test-unmarshal into this determines the underlying implementation.
type configProxy struct {
	Version int
}

// ParseConfig reads the version from the stream and hands the content to
// the matching implementation.
func ParseConfig(r io.Reader) (*Settings, error) {
	sb := new(strings.Builder)
	w, err := io.Copy(sb, r)
	if err != nil {
		return nil, fmt.Errorf("config: error reading settings after %d bytes: %v", w, err)
	}
	cfgstr := sb.String()

	var proxy configProxy
	err = yaml.Unmarshal([]byte(cfgstr), &proxy)
	if err != nil {
		return nil, errors.New("config: top level must be a map containg a key called 'version' that contains an integer")
	}

	configurator, err := GetConfigurator(proxy.Version)
	if err != nil {
		return nil, err
	}

	return configurator.ParseConfiguration(cfgstr)
}

// The interface each configuration version must implement.
type Configurator interface {
	ParseConfiguration(s string) (*Settings, error)
	SettingsExample() string
}

// The general representation of the settings, independent of the version
// they were read from.
type Settings struct {
	BitLength  int
	Rounds     int
	DebugSizes bool
	LogLevel   logging.LogLevel
	KeyName    string
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		BitLength: 2048,
		Rounds:    10,
		LogLevel:  logging.LevelWarning,
		KeyName:   "id_rsa",
	}
}
