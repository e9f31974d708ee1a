package page

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed scenes/*.yaml
var builtinFS embed.FS

// Builtin loads one of the bundled scenes by name.
func Builtin(name string) (*Scene, error) {
	data, err := builtinFS.ReadFile(path.Join("scenes", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return ParseScene(data)
}

// BuiltinNames lists the bundled scenes in sorted order.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("scenes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Resolve returns a bundled scene for a bare name, or loads a file when
// ref looks like a path.
func Resolve(ref string) (*Scene, error) {
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") || strings.ContainsRune(ref, '/') {
		return LoadScene(ref)
	}
	return Builtin(ref)
}
