package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func TestKeys(t *testing.T) {
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "slots:12:2026-05-04", dayKey(12, date))
	assert.Equal(t, "60:30", variantField(60, 30))
	assert.Equal(t, "slots:12:*", businessPattern(12))
}

func TestNop_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	var c Nop
	require.NoError(t, c.Set(ctx, 1, date, 60, 30, []domain.Slot{{}}))

	got, ok, err := c.Get(ctx, 1, date, 60, 30)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateDay(ctx, 1, date))
	assert.NoError(t, c.InvalidateBusiness(ctx, 1))
}
