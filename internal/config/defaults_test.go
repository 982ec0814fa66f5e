package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, 1000, cfg.Explorer.PageSize)
	assert.Equal(t, 100, cfg.Explorer.MarkerBatchSize)
	assert.Equal(t, 20, cfg.Explorer.TopN)
	assert.Equal(t, DefaultDeadLetterTopic, cfg.Kafka.DeadLetterTopic)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Explorer.PageSize = 250
	cfg.Redis.DefaultTTL = time.Minute
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 250, cfg.Explorer.PageSize)
	assert.Equal(t, time.Minute, cfg.Redis.DefaultTTL)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
