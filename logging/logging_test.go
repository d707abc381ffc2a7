package logging

import (
	"strings"
	"testing"
)

type testWriter struct {
	s []string
}

func (t *testWriter) Write(p []byte) (n int, err error) {
	t.s = append(t.s, string(p))
	return len(p), nil
}

func logAll() {
	Error("bla")
	Errorf("bla %d", 1)
	Warning("bla")
	Warningf("bla %d", 2)
	Info("bla")
	Infof("bla %d", 3)
	Debug("bla")
	Debugf("bla %d", 4)
}

func TestLevels(t *testing.T) {
	defer Initialize(LevelWarning, nil, nil)

	expected := map[LogLevel]int{
		LevelNone:    0,
		LevelError:   2,
		LevelWarning: 4,
		LevelInfo:    6,
		LevelDebug:   8,
	}

	for level, lines := range expected {
		tw := &testWriter{}
		Initialize(level, tw, tw)
		logAll()

		if len(tw.s) != lines {
			t.Fatalf("level %v: expected log to contain %d lines, but it is '%v'", level, lines, tw.s)
		}
		if Level() != level {
			t.Fatalf("expected current level %v, got %v", level, Level())
		}
	}
}

func TestWriterSplit(t *testing.T) {
	defer Initialize(LevelWarning, nil, nil)

	logw, errw := &testWriter{}, &testWriter{}
	Initialize(LevelDebug, logw, errw)
	logAll()

	if len(errw.s) != 4 || len(logw.s) != 4 {
		t.Fatalf("expected 4 lines per writer, got log=%v err=%v", logw.s, errw.s)
	}
	if !strings.HasPrefix(errw.s[0], "ERROR: ") || !strings.HasSuffix(errw.s[0], " bla\n") {
		t.Fatalf("unexpected prefix in '%v'", errw.s[0])
	}
	if !strings.HasPrefix(logw.s[3], "DEBUG: ") || !strings.HasSuffix(logw.s[3], " bla 4\n") {
		t.Fatalf("unexpected prefix in '%v'", logw.s[3])
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range []LogLevel{LevelNone, LevelError, LevelWarning, LevelInfo, LevelDebug} {
		parsed, err := ParseLevel(strings.ToUpper(level.String()))
		if err != nil {
			t.Fatal(err.Error())
		}
		if parsed != level {
			t.Fatalf("expected %v, got %v", level, parsed)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected unknown level to fail")
	}
	if LogLevel(9).String() != "LogLevel(9)" {
		t.Fatalf("unexpected name for out-of-range level: %v", LogLevel(9))
	}
}
