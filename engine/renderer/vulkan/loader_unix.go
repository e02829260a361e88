//go:build darwin || freebsd || linux

package vulkan

import "github.com/ebitengine/purego"

type dlLibrary struct {
	handle uintptr
}

func openLibrary(candidates []string) (library, string, error) {
	return openLibraryFrom(candidates, func(name string) (library, error) {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err != nil {
			return nil, err
		}
		return &dlLibrary{handle: h}, nil
	})
}

func (l *dlLibrary) symbol(name string) (uintptr, error) {
	return purego.Dlsym(l.handle, name)
}

func (l *dlLibrary) close() error {
	return purego.Dlclose(l.handle)
}
