// Package seginfo names and discovers the generation log files that make up
// a store's data directory.
//
// Filename Format: <generation>.log
//
// Where <generation> is a non-negative decimal integer with no leading
// zeros, assigned in increasing order over the lifetime of the store.
// Unlike a size-rotated segment naming scheme, the generation number alone
// is the sort key and the identity of the file — there is no prefix or
// timestamp component to disambiguate collisions, because exactly one
// process ever owns a data directory at a time (spec §5).
package seginfo

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const extension = ".log"

// GenerationPath returns the path of the log file for generation gen inside
// dataDir.
func GenerationPath(dataDir string, gen uint64) string {
	return filepath.Join(dataDir, strconv.FormatUint(gen, 10)+extension)
}

// ParseGeneration extracts the generation number from a bare filename (no
// directory component). It returns ok=false for any name that doesn't match
// "<digits>.log" exactly, including names with leading zeros, a sign, or
// extra characters — callers are expected to skip those silently per spec
// §4.2 rather than treat them as an error.
func ParseGeneration(filename string) (gen uint64, ok bool) {
	if !strings.HasSuffix(filename, extension) {
		return 0, false
	}

	digits := strings.TrimSuffix(filename, extension)
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ListGenerations enumerates every "<digits>.log" file directly inside
// dataDir and returns their generation numbers sorted ascending. Entries
// that don't parse as a bare generation filename — malformed names,
// directories, anything else left in the directory — are skipped silently.
func ListGenerations(dataDir string) ([]uint64, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, err
	}

	gens := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		gen, ok := ParseGeneration(entry.Name())
		if !ok {
			continue
		}
		gens = append(gens, gen)
	}

	slices.Sort(gens)
	return gens, nil
}
