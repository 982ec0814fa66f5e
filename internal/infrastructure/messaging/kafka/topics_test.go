package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/testutil"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

type mockKafkaConn struct {
	created    []kafka.TopicConfig
	createErr  error
	partitions map[string]int
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	var out []kafka.Partition
	for _, t := range topics {
		for i := 0; i < m.partitions[t]; i++ {
			out = append(out, kafka.Partition{Topic: t, ID: i})
		}
	}
	return out, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics(0)
	names := make([]string, 0, len(topics))
	for _, tc := range topics {
		names = append(names, tc.Name)
		assert.Equal(t, 1, tc.ReplicationFactor)
	}
	assert.ElementsMatch(t, []string{
		events.TopicProjectChanged,
		events.TopicTransactionActivity,
		events.TopicCatalogRefresh,
		events.TopicDeadLetter,
	}, names)
}

func TestCreateTopic_Validation(t *testing.T) {
	m := NewTopicManagerWithConn(&mockKafkaConn{}, testutil.NewMockLogger())
	ctx := context.Background()
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "a"}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "a", NumPartitions: 1}))
}

func TestEnsureTopics_CreatesWithRetention(t *testing.T) {
	conn := &mockKafkaConn{}
	m := NewTopicManagerWithConn(conn, testutil.NewMockLogger())

	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics(1)))
	require.Len(t, conn.created, 4)
	require.NotEmpty(t, conn.created[0].ConfigEntries)
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)
}

func TestCreateTopic_AlreadyExists(t *testing.T) {
	conn := &mockKafkaConn{
		createErr:  errors.New("topic already exists"),
		partitions: map[string]int{events.TopicDeadLetter: 1},
	}
	m := NewTopicManagerWithConn(conn, testutil.NewMockLogger())

	err := m.CreateTopic(context.Background(), TopicConfig{Name: events.TopicDeadLetter, NumPartitions: 1, ReplicationFactor: 1})
	assert.NoError(t, err)

	err = m.CreateTopic(context.Background(), TopicConfig{Name: "other", NumPartitions: 1, ReplicationFactor: 1})
	assert.Error(t, err)
}

//Personal.AI order the ending
