//go:build (linux || freebsd) && !wayland

package vulkan

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/goki/vulkan"
)

const (
	platformSurfaceExtension = "VK_KHR_xlib_surface"
	platformSurfaceProc      = "vkCreateXlibSurfaceKHR"
)

// xlibSurfaceCreateInfo mirrors VkXlibSurfaceCreateInfoKHR.
type xlibSurfaceCreateInfo struct {
	sType  uint32
	pNext  uintptr
	flags  uint32
	dpy    uintptr
	window uintptr
}

const structureTypeXlibSurfaceCreateInfo = 1000004000

func platformCreateSurface(proc, instance uintptr, native NativeHandles) (uintptr, vk.Result) {
	info := xlibSurfaceCreateInfo{
		sType:  structureTypeXlibSurfaceCreateInfo,
		dpy:    native.Display,
		window: native.Window,
	}
	var surface uintptr
	r, _, _ := purego.SyscallN(proc, instance, uintptr(unsafe.Pointer(&info)), 0, uintptr(unsafe.Pointer(&surface)))
	runtime.KeepAlive(&info)
	return surface, vk.Result(int32(r))
}
