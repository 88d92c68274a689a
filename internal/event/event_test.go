package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/event"
)

func TestEmitAppendsInOrder(t *testing.T) {
	log := event.NewLog()

	log.Emit(1, event.PhaseIncome, event.KindPrestigeAwarded, map[string]any{"amount": 10})
	log.Emit(1, event.PhaseCommand, event.KindShipCommissioned, nil)

	all := log.All()
	require.Len(t, all, 2)
	assert.Equal(t, event.KindPrestigeAwarded, all[0].Kind)
	assert.Equal(t, event.KindShipCommissioned, all[1].Kind)
	assert.Equal(t, 10, all[0].Fields["amount"])
}

func TestDrainResetsTheLog(t *testing.T) {
	log := event.NewLog()
	log.Emit(1, event.PhaseMaintenance, event.KindConstructionStarted, nil)

	drained := log.Drain()

	assert.Len(t, drained, 1)
	assert.Empty(t, log.All())
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	log := event.NewLog()
	log.Emit(1, event.PhaseConflict, event.KindCombatResolved, map[string]any{"hits": 3})

	clone := log.Clone()
	clone.Emit(2, event.PhaseConflict, event.KindCombatResolved, map[string]any{"hits": 5})
	clone.All()[0].Fields["hits"] = 99

	assert.Len(t, log.All(), 1, "mutating the clone must not grow the original's event slice")
	assert.Equal(t, 3, log.All()[0].Fields["hits"], "mutating a cloned event's fields must not affect the original")
}
