package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	l, err := Init("debug", "console")
	require.NoError(t, err)
	assert.Same(t, l, L())

	_, err = Init("loud", "json")
	assert.Error(t, err)

	_, err = Init("info", "xml")
	assert.Error(t, err)
}

func TestRequestIDRoundTrip(t *testing.T) {
	UseNop()
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
	assert.NotNil(t, Ctx(ctx))
}
