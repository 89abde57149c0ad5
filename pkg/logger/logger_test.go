package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger_WritesFieldsAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	l.Component("gateway").WithField("keywords", 2).WithError(errors.New("boom")).Info("fetched")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "gateway" {
		t.Errorf("Expected component gateway, got %v", line["component"])
	}
	if line["keywords"] != float64(2) {
		t.Errorf("Expected keywords 2, got %v", line["keywords"])
	}
	if line["error"] != "boom" {
		t.Errorf("Expected error boom, got %v", line["error"])
	}
	if line["message"] != "fetched" {
		t.Errorf("Expected message fetched, got %v", line["message"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Level: "warn"}, &buf)

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %q", buf.String())
	}

	l.Warn("kept")
	if buf.Len() == 0 {
		t.Error("Expected warn line to be written")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("For input '%s', expected %v, got %v", test.input, test.expected, got)
		}
	}
}
