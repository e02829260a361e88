//go:build windows

package vulkan

import "golang.org/x/sys/windows"

type dllLibrary struct {
	handle windows.Handle
}

func openLibrary(candidates []string) (library, string, error) {
	return openLibraryFrom(candidates, func(name string) (library, error) {
		h, err := windows.LoadLibrary(name)
		if err != nil {
			return nil, err
		}
		return &dllLibrary{handle: h}, nil
	})
}

func (l *dllLibrary) symbol(name string) (uintptr, error) {
	return windows.GetProcAddress(l.handle, name)
}

func (l *dllLibrary) close() error {
	return windows.FreeLibrary(l.handle)
}
