//go:build windows

package window

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
)

// platformNativeHandles returns the HWND. Display stays zero; the surface uses the executable's HINSTANCE.
func platformNativeHandles(gw *glfwWindow) vulkan.NativeHandles {
	return vulkan.NativeHandles{
		Window: uintptr(unsafe.Pointer(gw.window.GetWin32Window())),
	}
}
