//go:build darwin

package vulkan

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/goki/vulkan"
)

const (
	platformSurfaceExtension = "VK_EXT_metal_surface"
	platformSurfaceProc      = "vkCreateMetalSurfaceEXT"
)

// metalSurfaceCreateInfo mirrors VkMetalSurfaceCreateInfoEXT.
type metalSurfaceCreateInfo struct {
	sType  uint32
	pNext  uintptr
	flags  uint32
	pLayer uintptr
}

const structureTypeMetalSurfaceCreateInfo = 1000217000

// platformCreateSurface creates a Metal surface. Window must hold a CAMetalLayer; Display is unused.
func platformCreateSurface(proc, instance uintptr, native NativeHandles) (uintptr, vk.Result) {
	info := metalSurfaceCreateInfo{
		sType:  structureTypeMetalSurfaceCreateInfo,
		pLayer: native.Window,
	}
	var surface uintptr
	r, _, _ := purego.SyscallN(proc, instance, uintptr(unsafe.Pointer(&info)), 0, uintptr(unsafe.Pointer(&surface)))
	runtime.KeepAlive(&info)
	return surface, vk.Result(int32(r))
}
