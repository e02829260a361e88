package shader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
)

func TestRequestFromPath(t *testing.T) {
	tests := []struct {
		path    string
		wantOK  bool
		wantKey string
		want    ShaderType
	}{
		{"shaders/quad.vert.wgsl", true, "quad.vert", ShaderTypeVertex},
		{"shaders/quad.frag.spv", true, "quad.frag", ShaderTypeFragment},
		{"cull.COMP.wgsl", true, "cull.COMP", ShaderTypeCompute},
		{"quad.wgsl", false, "", 0},
		{"quad.geom.wgsl", false, "", 0},
		{"quad.vert.glsl", false, "", 0},
	}
	for _, tt := range tests {
		req, ok := RequestFromPath(tt.path)
		if ok != tt.wantOK {
			t.Errorf("RequestFromPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			continue
		}
		if ok && (req.Key != tt.wantKey || req.Type != tt.want || len(req.Options) != 1) {
			t.Errorf("RequestFromPath(%q) = %+v", tt.path, req)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string][]byte{
		"b.frag.spv":  spirvHeader(),
		"a.vert.spv":  spirvHeader(),
		"notes.txt":   []byte("x"),
		"plain.wgsl":  []byte(triangleWGSL),
		"nested.vert": nil,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.vert.wgsl"), 0o700); err != nil {
		t.Fatal(err)
	}

	reqs, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 2 || reqs[0].Key != "a.vert" || reqs[1].Key != "b.frag" {
		t.Fatalf("ScanDir = %+v", reqs)
	}

	shaders, err := CompileAll(2, reqs)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if shaders["a.vert"].ShaderType() != ShaderTypeVertex || shaders["b.frag"].SourcePath() == "" {
		t.Fatalf("compiled shaders = %v", shaders)
	}

	if _, err := ScanDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(logger.Nop(), dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	path := filepath.Join(dir, "quad.vert.spv")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, spirvHeader(), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Changes():
		if got != path {
			t.Fatalf("change = %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Fatalf("burst was not coalesced, extra change %q", got)
	case <-time.After(3 * settleDelay):
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(logger.Nop(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
