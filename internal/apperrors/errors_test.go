package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel", ErrAlreadyLiked, KindConflict},
		{"wrapped", fmt.Errorf("like post 7: %w", ErrPostNotFound), KindNotFound},
		{"double wrapped", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrSelfFollow)), KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(fmt.Errorf("insert follow: %w: dial tcp: refused", ErrStoreUnavailable)))
	assert.False(t, Retryable(ErrAlreadyFollowing))
	assert.False(t, Retryable(errors.New("unknown")))
}

func TestErrorMessageIsUntransformed(t *testing.T) {
	assert.Equal(t, "Already liked", ErrAlreadyLiked.Error())
	assert.Equal(t, "Cannot follow yourself", ErrSelfFollow.Error())
	assert.Equal(t, "Unauthorized", ErrForbidden.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "store_unavailable", KindStoreUnavailable.String())
	assert.Equal(t, "internal", Kind(99).String())
}
