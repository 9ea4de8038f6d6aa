package async

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0, cfg.NumWorkers)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.NotNil(t, cfg.Logger)
}

func TestConfigValidateRejectsNegativeValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumWorkers = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.QueueSize = -1
	assert.Error(t, cfg.Validate())
}

func TestNewThreadPoolRejectsInvalidConfig(t *testing.T) {
	_, err := NewThreadPool(WithNumWorkers(-3))
	require.Error(t, err)

	var asyncErr *Error
	require.ErrorAs(t, err, &asyncErr)
	assert.Equal(t, KindContractMisuse, asyncErr.Kind)
}

func TestResolvedWorkersDefaultsToNumCPU(t *testing.T) {
	pool, err := NewThreadPool()
	require.NoError(t, err)
	require.NoError(t, pool.Start())
	defer pool.Stop()

	assert.Equal(t, runtime.NumCPU(), pool.NumWorkers())
}
