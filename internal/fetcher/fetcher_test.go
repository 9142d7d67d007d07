package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseWaitStrategy(t *testing.T) {
	for _, s := range []string{"load", "element", "time"} {
		got, err := ParseWaitStrategy(s)
		require.NoError(t, err)
		require.Equal(t, WaitStrategy(s), got)
	}

	_, err := ParseWaitStrategy("idle")
	require.Error(t, err)
}

func TestSleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleep(ctx, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), time.Second)
}

func TestSleepZero(t *testing.T) {
	require.NoError(t, sleep(context.Background(), 0))
}
