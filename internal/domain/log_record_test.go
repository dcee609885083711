package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogRecord_HasTimestamp(t *testing.T) {
	assert.False(t, LogRecord{ID: "l1"}.HasTimestamp())
	assert.True(t, LogRecord{ID: "l1", CreatedAt: time.Now()}.HasTimestamp())
}

func TestIsKnownClothType(t *testing.T) {
	for _, ct := range KnownClothTypes {
		assert.True(t, IsKnownClothType(ct), ct)
	}
	assert.False(t, IsKnownClothType("Scarf"))
	assert.False(t, IsKnownClothType("jeans"))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := NewDomainErrorWithCause(ErrCodeUpstream, "platform down", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_ERROR")
	assert.Contains(t, err.Error(), "platform down")
}
