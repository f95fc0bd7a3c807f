package config

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"testing"

	"github.com/ironsheep/faraway-mcp/internal/detection"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfig_Defaults(t *testing.T) {
	t.Setenv("FARAWAY_MCP_CATALOG", "cards.csv")

	cfg, err := ParseConfig(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.CatalogPath != "cards.csv" {
		t.Errorf("catalog = %q", cfg.CatalogPath)
	}
	if cfg.WindowSize != 30 || cfg.Confidence != 0.7 {
		t.Errorf("window = %d confidence = %v, want 30 and 0.7", cfg.WindowSize, cfg.Confidence)
	}
	if cfg.LogLevel != "info" || cfg.Locale != "en-US" {
		t.Errorf("log level = %q locale = %q", cfg.LogLevel, cfg.Locale)
	}
	if !cfg.Viewport.Bounds().IsZero() || cfg.OTelEndpoint != "" {
		t.Errorf("unexpected optional settings: %+v", cfg)
	}
}

func TestParseConfig_Env(t *testing.T) {
	t.Setenv("FARAWAY_MCP_CATALOG", "cards.csv")
	t.Setenv("FARAWAY_MCP_WINDOW_SIZE", "12")
	t.Setenv("FARAWAY_MCP_CONFIDENCE", "0.9")
	t.Setenv("FARAWAY_MCP_LOG_LEVEL", "DEBUG")
	t.Setenv("FARAWAY_MCP_VIEWPORT", "0, 0, 1280, 720")
	t.Setenv("FARAWAY_MCP_OTEL_ENDPOINT", "localhost:4318")

	cfg, err := ParseConfig(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.WindowSize != 12 || cfg.Confidence != 0.9 {
		t.Errorf("window = %d confidence = %v", cfg.WindowSize, cfg.Confidence)
	}
	want := detection.Bounds{X2: 1280, Y2: 720}
	if cfg.Viewport.Bounds() != want {
		t.Errorf("viewport = %+v, want %+v", cfg.Viewport, want)
	}
	if cfg.OTelEndpoint != "localhost:4318" {
		t.Errorf("otel endpoint = %q", cfg.OTelEndpoint)
	}
}

func TestParseConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("FARAWAY_MCP_CATALOG", "env.csv")
	t.Setenv("FARAWAY_MCP_WINDOW_SIZE", "12")

	cfg, err := ParseConfig(newFlagSet(), []string{
		"-catalog", "flag.csv",
		"-window", "40",
		"-viewport", "10,20,110,220",
		"-locale", "pt-BR",
	})
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.CatalogPath != "flag.csv" || cfg.WindowSize != 40 || cfg.Locale != "pt-BR" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	want := detection.Bounds{X1: 10, Y1: 20, X2: 110, Y2: 220}
	if cfg.Viewport.Bounds() != want {
		t.Errorf("viewport = %+v, want %+v", cfg.Viewport, want)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing catalog", nil, nil},
		{"zero window", map[string]string{"FARAWAY_MCP_WINDOW_SIZE": "0"}, []string{"-catalog", "c.csv"}},
		{"confidence above one", map[string]string{"FARAWAY_MCP_CONFIDENCE": "1.2"}, []string{"-catalog", "c.csv"}},
		{"confidence zero", nil, []string{"-catalog", "c.csv", "-confidence", "0"}},
		{"bad level", map[string]string{"FARAWAY_MCP_LOG_LEVEL": "chatty"}, []string{"-catalog", "c.csv"}},
		{"bad window env", map[string]string{"FARAWAY_MCP_WINDOW_SIZE": "many"}, []string{"-catalog", "c.csv"}},
		{"bad viewport", map[string]string{"FARAWAY_MCP_VIEWPORT": "1,2,3"}, []string{"-catalog", "c.csv"}},
		{"unknown flag", nil, []string{"-catalog", "c.csv", "-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FARAWAY_MCP_CATALOG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseConfig(newFlagSet(), tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestViewport_Text(t *testing.T) {
	tests := []struct {
		in      string
		want    detection.Bounds
		wantErr bool
	}{
		{"", detection.Bounds{}, false},
		{"0,0,640,480", detection.Bounds{X2: 640, Y2: 480}, false},
		{"1.5,2.5,3.5,4.5", detection.Bounds{X1: 1.5, Y1: 2.5, X2: 3.5, Y2: 4.5}, false},
		{"10,10,5,20", detection.Bounds{}, true},
		{"a,b,c,d", detection.Bounds{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Viewport
			err := v.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && v.Bounds() != tt.want {
				t.Errorf("got %+v, want %+v", v.Bounds(), tt.want)
			}
		})
	}

	v := Viewport{X1: 1.5, Y2: 480, X2: 640}
	text, _ := v.MarshalText()
	if string(text) != "1.5,0,640,480" {
		t.Errorf("MarshalText = %q", text)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	log.Info("dropped")
	log.Warn("kept")
	_ = log.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "kept" || entry["level"] != "warn" {
		t.Errorf("unexpected entry: %v", entry)
	}

	if _, err := NewLogger("loud", &buf); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
