package storage

import (
	"bufio"
	"io"
	"os"
)

// Writer is a user-space buffered append writer that tracks the absolute
// byte offset of the next write. The offset is seeded from the underlying
// file's length at construction (the file is always opened O_APPEND, so
// every write lands at the current end regardless of this wrapper's notion
// of position — the tracked pos exists so callers can record exact byte
// ranges for index entries without a second syscall).
//
// Flush must be called before the reported pos can be trusted as durable:
// until then, written bytes may still be sitting in the bufio.Writer's
// user-space buffer.
type Writer struct {
	file *os.File
	bw   *bufio.Writer
	pos  int64
}

func newPositionedWriter(file *os.File) (*Writer, error) {
	pos, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	return &Writer{file: file, bw: bufio.NewWriter(file), pos: pos}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.bw.Write(p)
	w.pos += int64(n)
	return n, err
}

// Flush pushes the buffered bytes to the OS page cache. After it returns,
// Pos() equals the file's on-disk length (spec §4.1).
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

func (w *Writer) Pos() int64 {
	return w.pos
}

func (w *Writer) Close() error {
	return w.file.Close()
}

// Reader is a seekable reader that tracks the absolute byte offset of the
// next read, so callers can skip a redundant seek when they're already
// positioned where they want to read (spec §4.4: "seek to pos if not
// already positioned there").
type Reader struct {
	file *os.File
	br   *bufio.Reader
	pos  int64
}

func newPositionedReader(file *os.File) (*Reader, error) {
	pos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &Reader{file: file, br: bufio.NewReader(file), pos: pos}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	r.pos += int64(n)
	return n, err
}

// SeekTo repositions the reader to offset, a no-op if already there. A real
// seek discards the bufio.Reader's look-ahead buffer, since that buffer may
// hold bytes read past the old offset that no longer reflect where the
// file cursor needs to be.
func (r *Reader) SeekTo(offset int64) error {
	if r.pos == offset {
		return nil
	}
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	r.br.Reset(r.file)
	r.pos = offset
	return nil
}

// ReadExactly reads exactly n bytes starting at the reader's current
// position, advancing pos by n.
func (r *Reader) ReadExactly(n int64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) Pos() int64 {
	return r.pos
}

func (r *Reader) Close() error {
	return r.file.Close()
}
