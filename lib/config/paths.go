package config

import (
	"path/filepath"

	yaml "github.com/goccy/go-yaml"
)

// CfgPath is a path from the config file. Relative paths are resolved
// against the directory of the config file once parsing is done.
type CfgPath string

func (c *CfgPath) UnmarshalYAML(b []byte) error {
	var path string

	err := yaml.Unmarshal(b, &path)
	if err != nil {
		return err
	}

	*c = CfgPath(path)
	return nil
}

func (c CfgPath) resolve(base string) CfgPath {
	if c == "" || filepath.IsAbs(string(c)) || base == "" {
		return c
	}
	return CfgPath(filepath.Join(base, string(c)))
}
