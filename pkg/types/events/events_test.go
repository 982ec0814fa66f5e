package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope_RoundTripsPayload(t *testing.T) {
	env, err := NewEnvelope(TypeProjectFieldUpdated, "apiserver", ProjectChanged{
		ProjectID:  "p-1",
		PlantName:  "Alpha",
		FieldLabel: "Status",
		Author:     "Ada",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.False(t, env.Timestamp.IsZero())

	var got ProjectChanged
	require.NoError(t, env.Decode(&got))
	assert.Equal(t, "Alpha", got.PlantName)
	assert.Equal(t, "Status", got.FieldLabel)
}

func TestNewEnvelope_UnmarshalablePayload(t *testing.T) {
	_, err := NewEnvelope("x", "test", make(chan int))
	assert.Error(t, err)
}

func TestEnvelope_DecodeEmptyPayload(t *testing.T) {
	env := &Envelope{}
	var got CatalogRefresh
	assert.NoError(t, env.Decode(&got))
	assert.Empty(t, got.Tables)
}

//Personal.AI order the ending
