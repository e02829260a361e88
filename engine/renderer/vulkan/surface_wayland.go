//go:build (linux || freebsd) && wayland

package vulkan

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/goki/vulkan"
)

const (
	platformSurfaceExtension = "VK_KHR_wayland_surface"
	platformSurfaceProc      = "vkCreateWaylandSurfaceKHR"
)

// waylandSurfaceCreateInfo mirrors VkWaylandSurfaceCreateInfoKHR.
type waylandSurfaceCreateInfo struct {
	sType   uint32
	pNext   uintptr
	flags   uint32
	display uintptr
	surface uintptr
}

const structureTypeWaylandSurfaceCreateInfo = 1000006000

func platformCreateSurface(proc, instance uintptr, native NativeHandles) (uintptr, vk.Result) {
	info := waylandSurfaceCreateInfo{
		sType:   structureTypeWaylandSurfaceCreateInfo,
		display: native.Display,
		surface: native.Window,
	}
	var surface uintptr
	r, _, _ := purego.SyscallN(proc, instance, uintptr(unsafe.Pointer(&info)), 0, uintptr(unsafe.Pointer(&surface)))
	runtime.KeepAlive(&info)
	return surface, vk.Result(int32(r))
}
