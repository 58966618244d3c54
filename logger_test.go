package cglib

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/cglib/driver/memory"
	"github.com/gogpu/cglib/internal/debug"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if got := Logger(); got != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}
	if got := debug.Logger(); got != custom {
		t.Error("SetLogger did not reach sub-packages")
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestDebugNotesFromConfig(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx, err := NewContext(memory.New(), WithDebug("slicing"), WithMaxTileSize(16))
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	tex := ctx.NewTextureWithSize(40, 20)
	if err := tex.Allocate(); err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	tex.Destroy()
	ctx.Close()

	if !strings.Contains(buf.String(), "category=slicing") {
		t.Errorf("expected slicing notes, got:\n%s", buf.String())
	}
	if debug.Enabled(debug.Slicing) {
		t.Error("Close did not disable the context's debug categories")
	}
}

func TestCloseKeepsOtherContextDebug(t *testing.T) {
	a, err := NewContext(memory.New(), WithDebug("slicing", "program"))
	if err != nil {
		t.Fatalf("NewContext(a) error = %v", err)
	}
	b, err := NewContext(memory.New(), WithDebug("slicing"))
	if err != nil {
		t.Fatalf("NewContext(b) error = %v", err)
	}

	a.Close()
	a.Close()
	if !debug.Enabled(debug.Slicing) {
		t.Error("closing one context silenced slicing notes another context enabled")
	}
	if debug.Enabled(debug.Program) {
		t.Error("program notes still enabled after the only context using them closed")
	}

	b.Close()
	if debug.Enabled(debug.Slicing) {
		t.Error("slicing notes still enabled after every context closed")
	}
}
