package shader

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// stageSuffixes maps the second extension of a shader file to its stage: "quad.vert.wgsl" is a vertex shader
// with key "quad.vert".
var stageSuffixes = map[string]ShaderType{
	".vert": ShaderTypeVertex,
	".frag": ShaderTypeFragment,
	".comp": ShaderTypeCompute,
}

// IsShaderFile reports whether path has a .wgsl or .spv extension.
func IsShaderFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wgsl", ".spv":
		return true
	}
	return false
}

// RequestFromPath builds a compile Request for a shader file named <name>.<stage>.<wgsl|spv>.
//
// Parameters:
//   - path: the shader file path
//
// Returns:
//   - Request: a request reading the file, keyed by the base name without the final extension
//   - bool: false when the name does not follow the convention
func RequestFromPath(path string) (Request, bool) {
	if !IsShaderFile(path) {
		return Request{}, false
	}
	key := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stage, ok := stageSuffixes[strings.ToLower(filepath.Ext(key))]
	if !ok {
		return Request{}, false
	}
	return Request{Key: key, Type: stage, Options: []ShaderBuilderOption{WithSourceFromPath(path)}}, true
}

// ScanDir returns a Request for every shader file directly inside dir, sorted by key.
// Files that do not follow the naming convention are skipped.
//
// Parameters:
//   - dir: the shader directory
//
// Returns:
//   - []Request: the requests
//   - error: a directory read error
func ScanDir(dir string) ([]Request, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Request
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if req, ok := RequestFromPath(filepath.Join(dir, e.Name())); ok {
			out = append(out, req)
		}
	}
	slices.SortFunc(out, func(a, b Request) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}
