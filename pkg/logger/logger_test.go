package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// capture swaps the package output for a buffer for the duration of one test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = log.New(&buf, "", 0)
	t.Cleanup(func() {
		out = prev
		Init("info")
	})
	return &buf
}

func TestInitLevels(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"DEBUG":   "debug",
		" warn ":  "warn",
		"warning": "warn",
		"error":   "error",
		"fatal":   "fatal",
		"info":    "info",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range cases {
		Init(in)
		if got := LevelString(); got != want {
			t.Fatalf("Init(%q): level = %q, want %q", in, got, want)
		}
	}
	Init("info")
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	buf := capture(t)
	Init("info")

	Debugf("hidden %d", 1)
	Infof("visible %d", 2)

	s := buf.String()
	if strings.Contains(s, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", s)
	}
	if !strings.Contains(s, "visible 2") {
		t.Fatalf("info line missing: %q", s)
	}
}

func TestErrorLevelFiltersBelow(t *testing.T) {
	buf := capture(t)
	Init("error")

	Debugf("a")
	Infof("b")
	Warnf("c")
	Errorf("boom %s", "now")

	s := buf.String()
	if strings.Contains(s, "[INFO]") || strings.Contains(s, "[WARN]") || strings.Contains(s, "[DEBUG]") {
		t.Fatalf("lower levels leaked at error level: %q", s)
	}
	if !strings.Contains(s, "[ERROR]") || !strings.Contains(s, "boom now") {
		t.Fatalf("error line missing: %q", s)
	}
}

func TestDebugLevelShowsEverything(t *testing.T) {
	buf := capture(t)
	Init("debug")

	Debugf("d")
	Infof("i")
	Warnf("w")
	Errorf("e")

	s := buf.String()
	for _, tag := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"} {
		if !strings.Contains(s, tag) {
			t.Fatalf("missing %s at debug level: %q", tag, s)
		}
	}
}
