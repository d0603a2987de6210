package telemetry

import (
	"context"
	"testing"

	"github.com/sitepilot/engine/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), false, "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	_, span := Tracer().Start(context.Background(), "noop")
	span.End()
}

func TestInitEnabled(t *testing.T) {
	logger.UseNop()
	shutdown, err := Init(context.Background(), true, "engine-test")
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}
