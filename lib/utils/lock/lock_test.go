package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`exclusive execution check`, func(t *testing.T) {
		release := make(chan struct{})
		entered := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			ok, err := WithDelay(context.Background(), "key-a", time.Second, func() error {
				close(entered)
				<-release
				return nil
			})
			require.True(t, ok)
			require.NoError(t, err)
		}()
		<-entered

		ok, err := WithDelay(context.Background(), "key-a", 10*time.Millisecond, func() error {
			t.Error("must not run while the lock is held")
			return nil
		})
		require.False(t, ok)
		require.NoError(t, err)

		close(release)
		<-done
	})

	t.Run(`reacquire after release check`, func(t *testing.T) {
		ran := false
		ok, err := WithDelay(context.Background(), "key-a", time.Second, func() error {
			ran = true
			return nil
		})
		require.True(t, ok)
		require.NoError(t, err)
		require.True(t, ran)
	})

	t.Run(`independent keys check`, func(t *testing.T) {
		release := make(chan struct{})
		entered := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = WithDelay(context.Background(), "key-b", time.Second, func() error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered

		ok, err := WithDelay(context.Background(), "key-c", 10*time.Millisecond, func() error { return nil })
		require.True(t, ok)
		require.NoError(t, err)

		close(release)
		<-done
	})

	t.Run(`cancelled context gives up check`, func(t *testing.T) {
		release := make(chan struct{})
		entered := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = WithDelay(context.Background(), "key-d", time.Second, func() error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ok, err := WithDelay(ctx, "key-d", time.Minute, func() error { return nil })
		require.False(t, ok)
		require.NoError(t, err)

		close(release)
		<-done
	})
}
