package errors_test

import (
	stdErrors "errors"
	"testing"

	kvserrors "github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorChaining(t *testing.T) {
	err := kvserrors.NewValidationError(
		nil, kvserrors.ErrorCodeInvalidInput, "Storage configuration is required",
	).WithField("config").WithRule("required").WithProvided(nil)

	require.Equal(t, "Storage configuration is required", err.Error())
	require.Equal(t, kvserrors.ErrorCodeInvalidInput, err.Code())
}

func TestNewConfigurationValidationError(t *testing.T) {
	err := kvserrors.NewConfigurationValidationError("dataDir", "must not be empty")
	require.Equal(t, "Configuration validation failed", err.Error())
	require.Equal(t, kvserrors.ErrorCodeInvalidInput, err.Code())
}

func TestNewInvalidGenerationError(t *testing.T) {
	err := kvserrors.NewInvalidGenerationError(7, "some-key")
	require.Equal(t, kvserrors.ErrorCodeIndexInvalidGeneration, err.Code())

	var ie *kvserrors.IndexError
	require.True(t, stdErrors.As(err, &ie))
}

func TestIsKeyNotFound(t *testing.T) {
	err := kvserrors.NewKeyNotFoundKvsError("missing")
	require.True(t, kvserrors.IsKeyNotFound(err))
	require.False(t, kvserrors.IsKeyNotFound(stdErrors.New("unrelated")))
}

func TestStorageErrorBuilderChain(t *testing.T) {
	err := kvserrors.NewStorageError(nil, kvserrors.ErrorCodeIO, "failed to seek").
		WithSegmentID(3).
		WithOffset(128).
		WithFileName("3.log").
		WithPath("/data/3.log")

	require.Equal(t, "failed to seek", err.Error())
	require.Equal(t, kvserrors.ErrorCodeIO, err.Code())
}
