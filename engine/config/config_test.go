package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/wokdav/gorsa/logging"
)

type fixedConfigurator struct {
	settings Settings
}

func (f fixedConfigurator) ParseConfiguration(s string) (*Settings, error) {
	out := f.settings
	return &out, nil
}

func (f fixedConfigurator) SettingsExample() string {
	return "version: 99"
}

func TestParseConfigDispatchesOnVersion(t *testing.T) {
	AddConfigurator(99, fixedConfigurator{Settings{BitLength: 4096, KeyName: "fixed"}})
	defer delete(configurators, 99)

	s, err := ParseConfig(strings.NewReader("version: 99\nanything: goes"))
	if err != nil {
		t.Fatal(err.Error())
	}
	if s.BitLength != 4096 || s.KeyName != "fixed" {
		t.Fatalf("unexpected settings %+v", s)
	}

	if LatestVersion() < 99 {
		t.Fatalf("expected latest version to be at least 99, got %d", LatestVersion())
	}

	c, err := GetConfigurator(99)
	if err != nil {
		t.Fatal(err.Error())
	}
	if c.SettingsExample() != "version: 99" {
		t.Fatalf("unexpected example %q", c.SettingsExample())
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]bool{
		"version: 12345":  true,
		"":                true,
		"- just\n- a list": false,
		"{\"version\": 0}": true,
	}

	for input, unknownVersion := range tests {
		_, err := ParseConfig(strings.NewReader(input))
		if err == nil {
			t.Fatalf("expected '%v' to fail", input)
		}
		if errors.Is(err, ErrUnknownVersion) != unknownVersion {
			t.Fatalf("'%v': unexpected error %v", input, err)
		}
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.BitLength != 2048 || d.Rounds != 10 || d.KeyName != "id_rsa" ||
		d.LogLevel != logging.LevelWarning || d.DebugSizes {
		t.Fatalf("unexpected defaults %+v", d)
	}
}
