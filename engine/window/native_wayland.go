//go:build (linux || freebsd) && wayland

package window

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// platformNativeHandles returns the wl_display and the window's wl_surface.
func platformNativeHandles(gw *glfwWindow) vulkan.NativeHandles {
	return vulkan.NativeHandles{
		Display: uintptr(unsafe.Pointer(glfw.GetWaylandDisplay())),
		Window:  uintptr(unsafe.Pointer(gw.window.GetWaylandWindow())),
	}
}
