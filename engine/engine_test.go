package engine

import (
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
)

// fakeWindow replays a script of resize events, one per loop iteration, then returns from ProcessMessages.
type fakeWindow struct {
	log       *[]string
	resizes   [][2]int
	frames    int
	closed    bool
	minimized bool
	onUpdate  func()
	onResize  func(width, height int)
}

func (w *fakeWindow) SetUpdateCallback(callback func())                  { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetKeyDownCallback(callback func(keyCode uint32))   {}
func (w *fakeWindow) SetKeyUpCallback(callback func(keyCode uint32))     {}
func (w *fakeWindow) NativeHandles() vulkan.NativeHandles                { return vulkan.NativeHandles{} }
func (w *fakeWindow) IsRunning() bool                                    { return !w.closed }
func (w *fakeWindow) Minimized() bool                                    { return w.minimized }
func (w *fakeWindow) Width() int                                         { return 800 }
func (w *fakeWindow) Height() int                                        { return 600 }

func (w *fakeWindow) Close() error {
	*w.log = append(*w.log, "window.Close")
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for i := 0; !w.closed; i++ {
		if i < len(w.resizes) {
			width, height := w.resizes[i][0], w.resizes[i][1]
			w.minimized = width <= 0 || height <= 0
			if w.onResize != nil {
				w.onResize(width, height)
			}
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		w.frames++
		if i >= len(w.resizes) && w.frames >= 3 {
			return
		}
	}
}

// fakeRenderer records Resize and Destroy; other methods are not used by the engine.
type fakeRenderer struct {
	renderer.Renderer
	log       *[]string
	resizeErr error
}

func (r *fakeRenderer) Resize(width, height int) error {
	*r.log = append(*r.log, "renderer.Resize")
	return r.resizeErr
}

func (r *fakeRenderer) Destroy() {
	*r.log = append(*r.log, "renderer.Destroy")
}

func TestRunResizeAndTeardown(t *testing.T) {
	var calls []string
	w := &fakeWindow{log: &calls, resizes: [][2]int{{1024, 768}, {0, 0}, {640, 480}}}
	r := &fakeRenderer{log: &calls}
	e := NewEngine(WithWindow(w), WithRenderer(r))

	var rendered int
	e.SetRenderCallback(func(float32) { rendered++ })
	e.Run()

	want := []string{"renderer.Resize", "renderer.Resize", "renderer.Destroy", "window.Close"}
	if !slices.Equal(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	// the 0x0 frame is minimized and skips rendering
	if rendered != w.frames-1 {
		t.Fatalf("render callback ran %d times over %d frames", rendered, w.frames)
	}
}

func TestResizeErrorKeepsRunning(t *testing.T) {
	var calls []string
	w := &fakeWindow{log: &calls, resizes: [][2]int{{1024, 768}}}
	r := &fakeRenderer{log: &calls, resizeErr: errors.New("out of date")}
	NewEngine(WithWindow(w), WithRenderer(r)).Run()

	if w.frames < 3 {
		t.Fatalf("loop stopped after a resize failure: %d frames", w.frames)
	}
	if calls[len(calls)-2] != "renderer.Destroy" || calls[len(calls)-1] != "window.Close" {
		t.Fatalf("teardown order = %v", calls)
	}
}

func TestQuitTearsDownOnce(t *testing.T) {
	var calls []string
	w := &fakeWindow{log: &calls}
	r := &fakeRenderer{log: &calls}
	e := NewEngine(WithWindow(w), WithRenderer(r))
	e.SetRenderCallback(func(float32) { e.Quit() })
	e.Run()
	e.Quit()

	want := []string{"renderer.Destroy", "window.Close"}
	if !slices.Equal(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}

func TestTickLoop(t *testing.T) {
	var calls []string
	var ticks atomic.Int32
	w := &fakeWindow{log: &calls}
	e := NewEngine(WithWindow(w), WithRenderer(&fakeRenderer{log: &calls}), WithTickRate(1000))
	e.SetTickCallback(func(float32) { ticks.Add(1) })
	e.SetRenderCallback(func(float32) {
		deadline := time.Now().Add(time.Second)
		for ticks.Load() == 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	})
	e.Run()

	if ticks.Load() == 0 {
		t.Fatal("tick callback never ran")
	}
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := NewEngine().(*engine)
	e.SetRenderFrameLimit(50)
	if e.renderFrameLimit != 20*time.Millisecond {
		t.Fatalf("limit = %v", e.renderFrameLimit)
	}
	e.SetRenderFrameLimit(0)
	if e.renderFrameLimit != 0 {
		t.Fatalf("limit = %v, want uncapped", e.renderFrameLimit)
	}
}
