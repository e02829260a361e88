//go:build (linux || freebsd) && !wayland

package window

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// platformNativeHandles returns the Xlib display and the X11 window id.
func platformNativeHandles(gw *glfwWindow) vulkan.NativeHandles {
	return vulkan.NativeHandles{
		Display: uintptr(unsafe.Pointer(glfw.GetX11Display())),
		Window:  uintptr(gw.window.GetX11Window()),
	}
}
