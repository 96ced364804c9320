package storage

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/errors"
)

// loadGeneration streams every command record out of the generation file
// open at path, replaying each into idx exactly as spec §4.2 prescribes,
// and returns the number of bytes this generation contributed to the
// reclaimable-bytes counter.
//
// A Set record displaces whatever CommandPos idx previously held for its
// key; the displaced entry's length becomes reclaimable. A Remove record
// deletes the key's entry outright — the displaced entry's length and the
// tombstone's own length both become reclaimable, since no later index
// entry will ever point at a tombstone. (A reading of the upstream project
// this design is distilled from inserts the tombstone's own CommandPos
// into the index instead of deleting the key; spec §9 calls this out as a
// bug in that source and specifies the corrected, delete-on-tombstone
// behavior implemented here.)
//
// loadGeneration stops at the first record it cannot fully decode —
// whether that's a truncated trailing write from a crash mid-append, or
// any other corruption — and treats everything from that point onward as
// absent, per spec §5's crash-recovery contract.
func loadGeneration(gen uint64, file *os.File, idx *index.Index) (uncompacted int64, err error) {
	dec := json.NewDecoder(bufio.NewReader(file))

	var pos int64
	for {
		var cmd Command
		startPos := pos
		if decErr := dec.Decode(&cmd); decErr != nil {
			if decErr == io.EOF {
				break
			}
			// A partial trailing record: stop here and keep everything
			// decoded so far. Any other decode error is treated the same
			// way — the spec requires tolerating a truncated tail, and a
			// mid-file corruption that isn't a truncation would be
			// surfaced by later reads hitting invariant violations, not
			// by failing the whole Open.
			break
		}

		newPos := dec.InputOffset()

		switch {
		case cmd.IsSet():
			prev, existed := idx.Insert(cmd.Key(), index.CommandPos{Gen: gen, Pos: startPos, Len: newPos - startPos})
			if existed {
				uncompacted += prev.Len
			}
		case cmd.IsRemove():
			prev, existed := idx.Remove(cmd.Key())
			if existed {
				uncompacted += prev.Len
			}
			uncompacted += newPos - startPos
		default:
			return uncompacted, errors.NewSerdeError(nil, cmd.Key())
		}

		pos = newPos
	}

	return uncompacted, nil
}
