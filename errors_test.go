package webagent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizedErrors(t *testing.T) {
	t.Run("transient error carries category and code", func(t *testing.T) {
		cause := errors.New("rate limited")
		err := NewTransientError("too many requests", 429, cause)

		assert.Equal(t, ErrorTransient, err.Category())
		assert.True(t, err.Retryable())
		assert.Equal(t, 429, err.StatusCode())
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "too many requests")
	})

	t.Run("permanent error is not retryable", func(t *testing.T) {
		err := NewPermanentError("invalid api key", 401, nil)

		assert.Equal(t, ErrorPermanent, err.Category())
		assert.False(t, err.Retryable())
	})

	t.Run("retry-after is preserved", func(t *testing.T) {
		err := NewTransientErrorWithRetry("slow down", 429, 30*time.Second, nil)
		assert.Equal(t, 30*time.Second, err.RetryAfter())
		assert.Equal(t, 30*time.Second, RetryAfterOf(err))
	})

	t.Run("helpers inspect wrapped errors", func(t *testing.T) {
		inner := NewTransientError("overloaded", 503, nil)
		wrapped := errors.Join(errors.New("context"), inner)

		assert.True(t, IsTransient(wrapped))
		assert.False(t, IsPermanent(wrapped))
		assert.False(t, IsTransient(errors.New("plain")))
	})
}

func TestToolResults(t *testing.T) {
	t.Run("error result", func(t *testing.T) {
		res := ErrorResult("it broke")
		assert.False(t, res.OK)
		assert.Equal(t, "it broke", res.Error)
		assert.Nil(t, res.Data)
	})

	t.Run("ok result", func(t *testing.T) {
		res := OKResult(map[string]any{"count": 2})
		assert.True(t, res.OK)
		assert.Equal(t, 2, res.Data["count"])
		assert.Empty(t, res.Error)
	})
}

func TestGenerateRunID(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()

	require.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "run-")
}
