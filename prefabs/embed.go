package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Dir is the on-disk prefab directory. Files found there win over the
// embedded copies so edits apply without a rebuild.
var Dir = "prefabs"

//go:embed *.yaml scripts/*.tengo
var embedded embed.FS

// Load reads a prefab file such as "knight.yaml" or "scripts/idle.tengo".
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := fs.ReadFile(os.DirFS(Dir), clean); err == nil {
		return data, nil
	}
	data, err := fs.ReadFile(embedded, clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	return data, nil
}

// LoadScript reads a policy script by name; "runner", "runner.tengo" and
// "prefabs/scripts/runner.tengo" all resolve to the same file.
func LoadScript(name string) ([]byte, error) {
	return Load(scriptPath(name))
}

// Scripts lists the embedded policy scripts by bare name.
func Scripts() []string {
	entries, err := fs.ReadDir(embedded, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

func cleanPath(name string) string {
	s := path.Clean(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, "./")
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func scriptPath(name string) string {
	base := path.Base(cleanPath(name))
	if path.Ext(base) == "" {
		base += ".tengo"
	}
	return path.Join("scripts", base)
}
