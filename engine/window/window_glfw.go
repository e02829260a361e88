package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// minimizedWait bounds how long a minimized window blocks waiting for events, so update callbacks that
// watch for quit still run.
const minimizedWait = 0.1

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
	closed  bool

	// layer is the CAMetalLayer attached on first NativeHandles call. Unused outside macOS.
	layer uintptr
}

// newPlatformWindow initializes GLFW, creates a window without a client API and wires the GLFW callbacks
// into w.
//
// GLFW reference: https://www.glfw.org/docs/latest/vulkan_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return fmt.Errorf("GLFW found no Vulkan loader")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if w.resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{window: win, running: true}
	w.platform = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyUnknown {
			return
		}
		w.key(uint32(key), action != glfw.Release)
	})

	// Framebuffer size is in pixels, which is what the swapchain extent is measured in.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})

	// The framebuffer may be larger than the requested size on high-DPI displays.
	w.width, w.height = win.GetFramebufferSize()
	return nil
}

func (gw *glfwWindow) isRunning() bool {
	return gw.running && !gw.closed && !gw.window.ShouldClose()
}

func (gw *glfwWindow) requestClose() {
	gw.running = false
	gw.window.SetShouldClose(true)
}

func (gw *glfwWindow) pollEvents() {
	glfw.PollEvents()
}

func (gw *glfwWindow) waitEvents() {
	glfw.WaitEventsTimeout(minimizedWait)
}

// close destroys the window and terminates GLFW once.
func (gw *glfwWindow) close() {
	if gw.closed {
		return
	}
	gw.running = false
	gw.closed = true
	gw.window.Destroy()
	glfw.Terminate()
}
