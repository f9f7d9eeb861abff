package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunnelStageOrder(t *testing.T) {
	assert.Equal(t, 0, StageAwareness.Index())
	assert.Equal(t, 3, StageRetention.Index())
	assert.Equal(t, -1, FunnelStage("limbo").Index())

	assert.Equal(t, StageConsideration, StageAwareness.NextStage())
	assert.Equal(t, StageRetention, StageDecision.NextStage())
	// retention is terminal
	assert.Equal(t, StageRetention, StageRetention.NextStage())
	// unknown stages stay put rather than inventing a successor
	assert.Equal(t, FunnelStage("limbo"), FunnelStage("limbo").NextStage())
}

func TestClosedSetValidation(t *testing.T) {
	for _, p := range AllPersonas {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Persona("martian").IsValid())
	assert.False(t, Persona("").IsValid())

	for _, s := range AllFunnelStages {
		assert.True(t, s.IsValid())
	}
	assert.False(t, FunnelStage("limbo").IsValid())

	assert.True(t, ContentHero.IsValid())
	assert.False(t, ContentType("banner").IsValid())
	assert.False(t, ContentEvent.HasPersonaDimension())
	assert.False(t, ContentTestimonial.HasPersonaDimension())
	assert.True(t, ContentCTA.HasPersonaDimension())
}
