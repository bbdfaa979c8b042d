package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mediaEvent struct {
	Event string `json:"event" validate:"required,oneof=play pause ended error"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	errs, ok := v.Validate(mediaEvent{Event: "play"})
	assert.True(t, ok)
	assert.Nil(t, errs)

	errs, ok = v.Validate(mediaEvent{Event: "seek"})
	require.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "event", errs[0].Field)
	assert.Equal(t, "ONEOF", errs[0].Code)
	assert.Equal(t, "event must be one of: play pause ended error", errs[0].Message)

	errs, ok = v.Validate(mediaEvent{})
	require.False(t, ok)
	assert.Equal(t, "REQUIRED", errs[0].Code)
}
