package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// fileConfig holds the defaults pqctl reads from a `.pqctl.json` file
// sitting beside the queue file. CLI flags always win over it.
//
// Unlike a layered global/project config, pqctl has exactly one artifact,
// the queue file, to scope configuration to.
type fileConfig struct {
	MaxSize        int   `json:"max_size,omitempty"`        //nolint:tagliatelle // snake_case for config file
	FlushThreshold int64 `json:"flush_threshold,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// configFileName is the name of the optional sidecar config file, resolved
// relative to the directory containing the queue file.
const configFileName = ".pqctl.json"

// loadFileConfig loads the sidecar config for the queue file at path, if
// present. A missing file is not an error; it yields the zero fileConfig.
func loadFileConfig(path string) (fileConfig, error) {
	dir := filepath.Dir(path)
	cfgPath := filepath.Join(dir, configFileName)

	data, err := os.ReadFile(cfgPath) //nolint:gosec // path derived from CLI-supplied queue file location
	if err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}

		return fileConfig{}, fmt.Errorf("reading %s: %w", cfgPath, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC in %s: %w", cfgPath, err)
	}

	var cfg fileConfig

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON in %s: %w", cfgPath, err)
	}

	return cfg, nil
}
