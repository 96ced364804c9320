package errors

import stdErrors "errors"

// KvsError carries the engine-operation error taxonomy of the key-value
// store's public contract (§7 of its design): a mutating or read operation
// fails in one of a small, closed set of ways, and callers on the other side
// of the network boundary need to recover the specific one without parsing
// a message string.
type KvsError struct {
	*baseError
	key string
}

// Sentinel values for errors.Is comparisons. Wrapping preserves these as the
// root cause while KvsError carries the contextual detail (key, offset, …).
var (
	// ErrKeyNotFound is returned by Remove when the key has no live index
	// entry. It is the only error a mutating operation may return without
	// having left any trace in the log.
	ErrKeyNotFound = stdErrors.New("key not found")

	// ErrUnexpectedCommandType is returned by Get when the command at the
	// index-recorded offset deserializes to a Remove record instead of the
	// Set record the index entry promised. Finding one is a corruption
	// signal: no index entry should ever reference a tombstone.
	ErrUnexpectedCommandType = stdErrors.New("unexpected command type at recorded offset")
)

// NewKeyNotFoundKvsError builds the KvsError for a Remove on an absent key.
func NewKeyNotFoundKvsError(key string) *KvsError {
	return &KvsError{
		baseError: NewBaseError(ErrKeyNotFound, ErrorCodeKeyNotFound, "key not found"),
		key:       key,
	}
}

// NewSerdeError wraps a deserialization failure encountered while replaying
// or reading a log record.
func NewSerdeError(cause error, key string) *KvsError {
	return &KvsError{
		baseError: NewBaseError(cause, ErrorCodeSerde, "failed to deserialize command record"),
		key:       key,
	}
}

// NewUnexpectedCommandTypeError builds the KvsError for the invariant
// violation described in spec §7 item 4.
func NewUnexpectedCommandTypeError(key string) *KvsError {
	return &KvsError{
		baseError: NewBaseError(ErrUnexpectedCommandType, ErrorCodeUnexpectedCommandType, "index pointed at a non-Set command"),
		key:       key,
	}
}

// NewIOKvsError wraps an arbitrary filesystem or socket error.
func NewIOKvsError(cause error, key string) *KvsError {
	return &KvsError{
		baseError: NewBaseError(cause, ErrorCodeIO, "I/O failure"),
		key:       key,
	}
}

// NewStringKvsError builds an opaque, string-carrying error for use across
// the network boundary, where the concrete Go error type on the server side
// cannot be reconstructed on the client.
func NewStringKvsError(msg string) *KvsError {
	return &KvsError{baseError: NewBaseError(nil, ErrorCodeInternal, msg)}
}

// Key returns the key the failed operation was processing, if any.
func (ke *KvsError) Key() string { return ke.key }

// IsKeyNotFound reports whether err is, or wraps, ErrKeyNotFound.
func IsKeyNotFound(err error) bool {
	return stdErrors.Is(err, ErrKeyNotFound)
}
