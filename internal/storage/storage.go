// Package storage provides the append-only, generation-partitioned command
// log at the core of the Ignite storage engine.
//
// On open, it discovers every existing "<gen>.log" file in the data
// directory, replays each one into the caller's index (oldest generation
// first, so later writes correctly displace earlier ones), and opens a
// fresh generation as the append target for the rest of the process's
// life. From then on, writes only ever go to that one active generation;
// compaction (internal/compaction) is what retires old generations and
// introduces new ones mid-process.
package storage

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignite/internal/index"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/seginfo"
	"go.uber.org/multierr"
)

var ErrStorageClosed = stdErrors.New("operation failed: cannot access closed storage")

// Open performs the directory scan and log replay of spec §4.2: it creates
// dataDir if absent, discovers existing generations in ascending order,
// replays each into idx, and opens generation (max existing + 1) as the new
// active segment. It returns the initialized Storage along with the total
// reclaimable bytes accumulated across every replayed generation.
func Open(_ context.Context, config *Config, idx *index.Index) (*Storage, int64, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, 0, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "Storage configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dataDir := config.Options.DataDir
	config.Logger.Infow("Initializing storage system", "dataDir", dataDir)

	if err := filesys.CreateDir(dataDir, 0755, true); err != nil {
		return nil, 0, errors.ClassifyDirectoryCreationError(err, dataDir)
	}

	gens, err := seginfo.ListGenerations(dataDir)
	if err != nil {
		return nil, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to list generations").WithPath(dataDir)
	}

	s := &Storage{
		dataDir: dataDir,
		options: config.Options,
		log:     config.Logger,
		readers: make(map[uint64]*Reader, len(gens)+1),
	}

	var uncompacted int64
	for _, gen := range gens {
		reader, err := s.openReader(gen)
		if err != nil {
			return nil, 0, err
		}

		n, err := loadGeneration(gen, reader.file, idx)
		if err != nil {
			return nil, 0, err
		}
		uncompacted += n

		// loadGeneration drives its own bufio.Reader directly over the file
		// descriptor; reopen a clean positionedReader afterward so later
		// point reads start from a known pos rather than wherever the
		// decoder's internal buffering left the cursor.
		reader.Close()
		delete(s.readers, gen)
		if _, err := s.openReader(gen); err != nil {
			return nil, 0, err
		}
	}

	var currentGen uint64 = 1
	if len(gens) > 0 {
		currentGen = gens[len(gens)-1] + 1
	}

	if err := s.activateWriter(currentGen); err != nil {
		return nil, 0, err
	}

	config.Logger.Infow(
		"Storage system initialized successfully",
		"activeGeneration", currentGen, "generationsLoaded", len(gens), "uncompacted", uncompacted,
	)
	return s, uncompacted, nil
}

// openReader opens (or reuses) a read-only file handle for gen and
// registers it in the reader table.
func (s *Storage) openReader(gen uint64) (*Reader, error) {
	if r, ok := s.readers[gen]; ok {
		return r, nil
	}

	path := seginfo.GenerationPath(s.dataDir, gen)
	file, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	reader, err := newPositionedReader(file)
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to seed reader position").WithPath(path)
	}

	s.readers[gen] = reader
	return reader, nil
}

// activateWriter opens gen for append and makes it the current generation,
// also registering a reader for it so a write immediately followed by a
// read of the same generation works without a second file open.
func (s *Storage) activateWriter(gen uint64) error {
	path := seginfo.GenerationPath(s.dataDir, gen)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	writer, err := newPositionedWriter(file)
	if err != nil {
		file.Close()
		return errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to seed writer position").WithPath(path)
	}

	if _, err := s.openReader(gen); err != nil {
		writer.Close()
		return err
	}

	s.writer = writer
	s.currentGen = gen
	return nil
}

// CurrentGen returns the generation currently targeted by appends.
func (s *Storage) CurrentGen() uint64 {
	return s.currentGen
}

// Append serializes cmd, flushes it past the user-space buffer, and
// returns the CommandPos describing exactly where it landed (spec §4.4
// steps 1-3, shared by Set and Remove).
func (s *Storage) Append(cmd Command) (index.CommandPos, error) {
	encoded, err := cmd.Encode()
	if err != nil {
		return index.CommandPos{}, errors.NewSerdeError(err, cmd.Key())
	}

	p0 := s.writer.Pos()
	if _, err := s.writer.Write(encoded); err != nil {
		return index.CommandPos{}, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to append command").WithOffset(int(p0))
	}
	if err := s.writer.Flush(); err != nil {
		return index.CommandPos{}, errors.ClassifySyncError(
			err, filepath.Base(seginfo.GenerationPath(s.dataDir, s.currentGen)), s.dataDir, int(p0),
		)
	}
	p1 := s.writer.Pos()

	return index.CommandPos{Gen: s.currentGen, Pos: p0, Len: p1 - p0}, nil
}

// Read deserializes exactly the command described by pos: spec §4.4 step 2
// ("seek to pos if not already positioned there") followed by step 3
// ("deserialize exactly len bytes").
func (s *Storage) Read(pos index.CommandPos) (Command, error) {
	reader, ok := s.readers[pos.Gen]
	if !ok {
		return Command{}, errors.NewInvalidGenerationError(pos.Gen, "")
	}

	if err := reader.SeekTo(pos.Pos); err != nil {
		return Command{}, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to seek to command offset").
			WithSegmentID(int(pos.Gen)).WithOffset(int(pos.Pos))
	}

	raw, err := reader.ReadExactly(pos.Len)
	if err != nil {
		return Command{}, errors.NewStorageError(err, errors.ErrorCodePayloadReadFailure, "Failed to read command bytes").
			WithSegmentID(int(pos.Gen)).WithOffset(int(pos.Pos))
	}

	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return Command{}, errors.NewSerdeError(err, "")
	}
	return cmd, nil
}

// ReaderFor exposes the long-lived reader registered for gen. The compactor
// does not use it; it copies raw bytes through CopyCommand.
func (s *Storage) ReaderFor(gen uint64) (*Reader, error) {
	reader, ok := s.readers[gen]
	if !ok {
		return nil, errors.NewInvalidGenerationError(gen, "")
	}
	return reader, nil
}

// OpenGenerationForWrite opens gen as a fresh append target without making
// it the active generation — used by the compactor for its standalone
// compaction-output writer — and registers a reader for it.
func (s *Storage) OpenGenerationForWrite(gen uint64) (*Writer, error) {
	path := seginfo.GenerationPath(s.dataDir, gen)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, filepath.Base(path))
	}

	writer, err := newPositionedWriter(file)
	if err != nil {
		file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to seed writer position").WithPath(path)
	}

	if _, err := s.openReader(gen); err != nil {
		writer.Close()
		return nil, err
	}

	return writer, nil
}

// ActivateGeneration flushes and closes the outgoing writer — without
// touching its reader or its file, since compaction deliberately leaves a
// retired generation's bytes on disk until RemoveGenerations collects
// them — then makes gen, already opened via OpenGenerationForWrite, the
// new append target. The outgoing writer's fd must be closed here: the
// generation it was writing is about to be unlinked by RemoveGenerations,
// and some platforms refuse to remove a file still open for writing.
func (s *Storage) ActivateGeneration(gen uint64, writer *Writer) error {
	var errs error
	if s.writer != nil {
		if err := s.writer.Flush(); err != nil {
			errs = multierr.Append(errs, err)
		}
		if err := s.writer.Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	s.writer = writer
	s.currentGen = gen
	return errs
}

// CopyCommand streams the raw, still-encoded bytes of the command at pos
// into dst without decoding them, and returns the offset within dst they
// landed at — spec §4.5 step 2's "stream exactly ℓ bytes... into the
// compaction_gen writer", verbatim rather than re-serialized.
func (s *Storage) CopyCommand(pos index.CommandPos, dst *Writer) (int64, error) {
	reader, ok := s.readers[pos.Gen]
	if !ok {
		return 0, errors.NewInvalidGenerationError(pos.Gen, "")
	}

	if err := reader.SeekTo(pos.Pos); err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to seek to command offset").
			WithSegmentID(int(pos.Gen)).WithOffset(int(pos.Pos))
	}

	raw, err := reader.ReadExactly(pos.Len)
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodePayloadReadFailure, "Failed to read command bytes during compaction").
			WithSegmentID(int(pos.Gen)).WithOffset(int(pos.Pos))
	}

	newPos := dst.Pos()
	if _, err := dst.Write(raw); err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to write command during compaction").WithOffset(int(newPos))
	}
	return newPos, nil
}

// RemoveGenerations drops the readers for every generation strictly less
// than keepFrom and unlinks their files (spec §4.5 step 4). File handles
// are always closed before the unlink, since some platforms refuse to
// remove a file that's still open (spec §5).
func (s *Storage) RemoveGenerations(keepFrom uint64) error {
	var errs error
	for gen, reader := range s.readers {
		if gen >= keepFrom {
			continue
		}
		if err := reader.Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
		delete(s.readers, gen)

		path := seginfo.GenerationPath(s.dataDir, gen)
		if err := filesys.DeleteFile(path); err != nil {
			errs = multierr.Append(errs, errors.NewStorageError(err, errors.ErrorCodeIO, "Failed to remove stale generation").WithPath(path))
		}
	}
	return errs
}

// Close flushes the active writer and closes every open file handle,
// combining any failures into a single error via multierr.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStorageClosed
	}

	var errs error
	if s.writer != nil {
		if err := s.writer.Flush(); err != nil {
			errs = multierr.Append(errs, err)
		}
		if err := s.writer.Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for gen, reader := range s.readers {
		if err := reader.Close(); err != nil {
			errs = multierr.Append(errs, err)
		}
		delete(s.readers, gen)
	}

	if errs != nil {
		s.log.Errorw("Storage close encountered errors", "error", errs)
	} else {
		s.log.Infow("Storage closed successfully")
	}
	return errs
}
