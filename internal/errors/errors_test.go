package errors_test

import (
	"io"
	"testing"

	apperrors "github.com/jrsteele09/delivery-signin/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "context %d", 1))

	err := apperrors.Wrapf(apperrors.ErrSessionNotFound, "[Read] session %s", "abc")
	require.EqualError(t, err, "[Read] session abc: session not found")
	require.True(t, apperrors.Is(err, apperrors.ErrSessionNotFound))
	require.False(t, apperrors.Is(err, io.EOF))
}
