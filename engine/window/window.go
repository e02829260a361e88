package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
)

// ErrNotInitialized is returned when a platform call is made on a window that was never created.
var ErrNotInitialized = errors.New("window: not initialized")

// Window is a desktop window that a Vulkan surface can be created against. It owns the event loop: callbacks
// run on the thread that called ProcessMessages, which must be the main thread.
type Window interface {
	// SetUpdateCallback sets the function called once per event loop iteration, after events are dispatched.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes. Sizes are in pixels and
	// are 0x0 while the window is minimized.
	//
	// Parameters:
	//   - callback: function receiving the new framebuffer width and height
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and key repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code, see the Key constants
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	SetKeyUpCallback(callback func(keyCode uint32))

	// NativeHandles returns the display and window handles a presentation surface is created from.
	// Which handles are filled depends on the platform: an X11 display and window, a Wayland display and
	// surface, a Win32 HWND, or a CAMetalLayer attached to the Cocoa window.
	//
	// Returns:
	//   - vulkan.NativeHandles: the handles, zero if the window is not initialized
	NativeHandles() vulkan.NativeHandles

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// Minimized reports whether the framebuffer is currently 0x0. No swapchain can be sized for a minimized
	// window, so rendering should be skipped until it is restored.
	Minimized() bool

	// Close destroys the window and releases the platform library. Closing a closed window does nothing.
	//
	// Returns:
	//   - error: ErrNotInitialized if the window was never created
	Close() error

	// ProcessMessages runs the event loop until the window closes. While minimized the loop blocks waiting
	// for events instead of polling.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// engineWindow holds the requested configuration, the current framebuffer size and the callbacks. The GLFW
// state lives in platform once the window is created.
type engineWindow struct {
	title string

	// size limits applied while resizing, in screen coordinates
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height are the requested size until the window is created, then the framebuffer size.
	width, height int

	resizable     bool
	closeOnEscape bool

	platform *glfwWindow

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates the platform window. Defaults are applied first, then each option in order. The window
// is created without a client graphics API so a Vulkan surface can be attached to it, and it must be
// created on the main thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if GLFW cannot be initialized, finds no Vulkan loader, or cannot create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// newEngineWindow applies the defaults and then the options, without creating the platform window.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "oxy-vk",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      320,
		minHeight:     200,
		width:         1280,
		height:        720,
		resizable:     true,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) NativeHandles() vulkan.NativeHandles {
	if w.platform == nil || w.platform.window == nil {
		return vulkan.NativeHandles{}
	}
	return platformNativeHandles(w.platform)
}

func (w *engineWindow) IsRunning() bool {
	return w.platform != nil && w.platform.isRunning()
}

func (w *engineWindow) Minimized() bool {
	return w.width <= 0 || w.height <= 0
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return ErrNotInitialized
	}
	w.platform.close()
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if w.Minimized() {
			w.platform.waitEvents()
		} else {
			w.platform.pollEvents()
		}
		if !w.IsRunning() {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

// resized records a new framebuffer size and notifies the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// key dispatches a key event. Escape closes the window when closeOnEscape is set and is not forwarded.
func (w *engineWindow) key(code uint32, pressed bool) {
	if pressed && code == KeyEscape && w.closeOnEscape && w.platform != nil {
		w.platform.requestClose()
		return
	}
	switch {
	case pressed && w.onKeyDown != nil:
		w.onKeyDown(code)
	case !pressed && w.onKeyUp != nil:
		w.onKeyUp(code)
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
