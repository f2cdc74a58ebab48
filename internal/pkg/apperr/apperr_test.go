package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(KindState, "publish requires approved status")
	assert.Equal(t, KindState, KindOf(err))
	assert.True(t, IsKind(err, KindState))
	assert.False(t, IsKind(err, KindAuthorization))
}

func TestKindOfWrapped(t *testing.T) {
	inner := Wrap(KindNotFound, "content not found", errors.New("record not found"))
	outer := fmt.Errorf("load content: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(outer))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := Wrap(KindRateLimit, "counter unavailable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "redis down")
}
