package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	Initialize()

	id := Create("bulk_outreach")
	j, ok := Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusPending, j.Status)
	assert.Equal(t, "bulk_outreach", j.Type)

	UpdateStatus(id, StatusProcessing)
	j, _ = Get(id)
	assert.Equal(t, StatusProcessing, j.Status)
	assert.False(t, j.StartedAt.IsZero())

	UpdateProgress(id, 40, "sent 4 of 10")
	j, _ = Get(id)
	assert.Equal(t, float32(40), j.Progress)
	assert.Equal(t, "sent 4 of 10", j.Message)

	Complete(id, map[string]int{"sent": 10})
	j, _ = Get(id)
	assert.Equal(t, StatusCompleted, j.Status)
	assert.Equal(t, float32(100), j.Progress)
	assert.False(t, j.CompletedAt.IsZero())
}

func TestJobError(t *testing.T) {
	Initialize()

	id := Create("bulk_outreach")
	SetError(id, "provider unreachable")

	j, ok := Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, j.Status)
	assert.Equal(t, "provider unreachable", j.ErrorMessage)
}

func TestGetUnknownJob(t *testing.T) {
	Initialize()

	_, ok := Get("nope")
	assert.False(t, ok)
}

func TestCleanupOld(t *testing.T) {
	Initialize()

	done := Create("bulk_outreach")
	Complete(done, nil)
	running := Create("bulk_outreach")
	UpdateStatus(running, StatusProcessing)

	// maxAge 0 clears every finished job but leaves running ones alone
	cleaned := CleanupOld(0)
	assert.Equal(t, 1, cleaned)

	_, ok := Get(done)
	assert.False(t, ok)
	_, ok = Get(running)
	assert.True(t, ok)

	// nothing else to clean
	assert.Equal(t, 0, CleanupOld(time.Hour))
}
