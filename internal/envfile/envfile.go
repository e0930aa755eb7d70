// Package envfile loads KEY=VALUE environment files. Variables that are
// already set in the process environment always win over file contents.
package envfile

import (
	"fmt"
	"os"
	"strings"
)

// LoadAll loads each file in order. A variable set by an earlier file is
// not overwritten by a later one, so callers list files from most to
// least specific. Missing files are skipped.
func LoadAll(paths ...string) error {
	for _, p := range paths {
		if err := Load(p); err != nil {
			return err
		}
	}
	return nil
}

// Load reads one env file and sets any variables not already present in
// the environment. A missing file is not an error.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := parseLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
	return nil
}

// parseLine splits KEY=VALUE, tolerating an "export " prefix and single
// or double quotes around the value.
func parseLine(line string) (key, value string, ok bool) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(line[:eq])
	key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
	if key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(line[eq+1:])
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}

	return key, value, true
}
