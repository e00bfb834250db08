package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolConfig_WithDefaults_FillsZeroFields(t *testing.T) {
	cfg := PoolConfig{MaxConns: 10, MinConns: 1}.withDefaults()

	assert.Equal(t, 10, cfg.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.HealthCheckPeriod)
	assert.Equal(t, 5*time.Second, cfg.PoolTimeout)
	assert.Equal(t, 5, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}

func TestPoolConfig_WithDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := PoolConfig{
		RetryAttempts: 2,
		RetryDelay:    3 * time.Second,
	}.withDefaults()

	assert.Equal(t, 2, cfg.RetryAttempts)
	assert.Equal(t, 3*time.Second, cfg.RetryDelay)
}

func TestPoolProfiles(t *testing.T) {
	server := ServerPoolConfig()
	consumer := ConsumerPoolConfig()

	assert.Equal(t, "money-transfer-server", server.ApplicationName)
	assert.Equal(t, "money-transfer-consumer", consumer.ApplicationName)

	// у сервиса пул заметно больше консюмерского
	assert.Greater(t, server.MaxConns, consumer.MaxConns)
	assert.Greater(t, server.MinConns, consumer.MinConns)
}
