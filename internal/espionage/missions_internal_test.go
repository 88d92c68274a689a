package espionage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ec4x/engine/internal/config"
	"github.com/ec4x/engine/internal/rng"
)

func TestRollDetectionFallsBackToFifteenWhenBandUnconfigured(t *testing.T) {
	rule := config.EspionageRule{}

	roll := rng.NewStream(7).D20()
	want := roll < 15

	got := rollDetection(rng.NewStream(7), rule, 0, 0)

	assert.Equal(t, want, got)
}

func TestRollDetectionCICBonusCanOnlyReduceDetection(t *testing.T) {
	rule := config.EspionageRule{DetectionThresholdByCIC: map[int]int{0: 10}}

	detectedNoBonus := rollDetection(rng.NewStream(3), rule, 0, 0)
	detectedWithBonus := rollDetection(rng.NewStream(3), rule, 20, 0)

	if !detectedNoBonus {
		assert.False(t, detectedWithBonus, "a larger concealment bonus against the same roll must never newly trigger detection")
	}
}

func TestRollDetectionUsesBandSpecificThreshold(t *testing.T) {
	rule := config.EspionageRule{DetectionThresholdByCIC: map[int]int{0: 1, 100: 21}}

	// Threshold 1 means only a roll of 0 (impossible on a d20+0) is ever
	// "detected"; threshold 21 means every roll is.
	neverDetected := rollDetection(rng.NewStream(42), rule, 0, 0)
	alwaysDetected := rollDetection(rng.NewStream(42), rule, 0, 100)

	assert.False(t, neverDetected)
	assert.True(t, alwaysDetected)
}
