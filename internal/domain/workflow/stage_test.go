package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageCanAdvanceTo(t *testing.T) {
	tests := []struct {
		name   string
		from   Stage
		to     Stage
		expect bool
	}{
		{"adjacent forward", StageOrdered, StagePrintQueued, true},
		{"skipping forward", StagePrintDone, StageBoxed, true},
		{"backwards", StageBoxed, StageInProduction, false},
		{"same stage", StageInProduction, StageInProduction, false},
		{"unknown target", StageOrdered, Stage("SHIPPED"), false},
		{"unknown source", Stage("LIMBO"), StageBoxed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestStageAdvance(t *testing.T) {
	t.Run("forward move succeeds", func(t *testing.T) {
		next, err := StagePrintQueued.Advance(StagePrintDone)
		require.NoError(t, err)
		assert.Equal(t, StagePrintDone, next)
	})

	t.Run("backward move is rejected", func(t *testing.T) {
		_, err := StageDelivered.Advance(StageBoxed)
		assert.Error(t, err)
	})
}
