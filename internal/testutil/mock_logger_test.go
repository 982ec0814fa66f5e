package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
	assert.Equal(t, 1, logger.CountLevel("error"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()

	child := logger.Named("catalog").With(logging.String("table", "global_plants"))
	child.Warn("fetch failed")

	entry, ok := logger.Find("warn", "fetch failed")
	require.True(t, ok)
	assert.Equal(t, "catalog", entry.Logger)
	v, _ := entry.Field("table")
	assert.Equal(t, "global_plants", v)
}

//Personal.AI order the ending
