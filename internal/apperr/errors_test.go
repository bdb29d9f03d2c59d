package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad %s", "input")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", NotFound("missing"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", RateLimited("slow down"))
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrValidation)

	internal := fmt.Errorf("stats: %w", Internal(errors.New("nil catalog")))
	assert.ErrorIs(t, internal, ErrInternal)
	assert.NotErrorIs(t, internal, ErrNotReady)
	assert.NotErrorIs(t, errors.New("foreign"), ErrInternal)
}

func TestMessageOfHidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("nil pointer in catalog"))
	assert.Equal(t, "Internal server error.", MessageOf(err))
	assert.Equal(t, "Internal server error.", MessageOf(errors.New("raw")))
	assert.Equal(t, "The ID must be a positive integer.", MessageOf(Validation("The ID must be a positive integer.")))
	assert.ErrorContains(t, err, "nil pointer in catalog")
}
