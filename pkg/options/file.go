package options

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	units "github.com/docker/go-units"
	"github.com/tailscale/hujson"
)

// fileOptions mirrors Options but allows the two duration/size-valued
// fields to be written as operator-friendly strings ("1MiB", "5h") in the
// on-disk config file, the way launix-de/memcp sizes its storage buffers
// and the way time.Duration is conventionally spelled in JSON configs.
type fileOptions struct {
	DataDir             string `json:"dataDir"`
	CompactionThreshold string `json:"compactionThreshold"`
	CompactInterval     string `json:"compactInterval"`
}

// LoadFile reads an options file at path, written in JWCC (JSON with
// comments and trailing commas, "JSON-with-comments") and returns the
// decoded Options. Fields left blank in the file fall back to
// NewDefaultOptions.
//
// Operators can annotate the file, e.g.:
//
//	{
//	  // segments and the command log live here
//	  "dataDir": "/srv/ignite/data",
//	  "compactionThreshold": "1MiB",
//	  "compactInterval": "5h",
//	}
func LoadFile(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("options: read config file: %w", err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Options{}, fmt.Errorf("options: parse JWCC config: %w", err)
	}

	var fo fileOptions
	if err := json.Unmarshal(standardized, &fo); err != nil {
		return Options{}, fmt.Errorf("options: decode config: %w", err)
	}

	opts := NewDefaultOptions()
	if fo.DataDir != "" {
		opts.DataDir = fo.DataDir
	}
	if fo.CompactionThreshold != "" {
		n, err := units.RAMInBytes(fo.CompactionThreshold)
		if err != nil {
			return Options{}, fmt.Errorf("options: invalid compactionThreshold %q: %w", fo.CompactionThreshold, err)
		}
		opts.CompactionThreshold = uint64(n)
	}
	if fo.CompactInterval != "" {
		d, err := time.ParseDuration(fo.CompactInterval)
		if err != nil {
			return Options{}, fmt.Errorf("options: invalid compactInterval %q: %w", fo.CompactInterval, err)
		}
		opts.CompactInterval = d
	}

	return opts, nil
}
