package obs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureSettlesOnce(t *testing.T) {
	f := newFuture[string]()
	_, err := f.Result()
	assert.ErrorIs(t, err, ErrPending)
	assert.Equal(t, 0, f.Code())

	var wg sync.WaitGroup
	wins := make(chan bool, 10)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- f.settle("v", nil, 100+i)
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	assert.Equal(t, 1, won)

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.GreaterOrEqual(t, f.Code(), 100)
}

func TestFutureError(t *testing.T) {
	f := newFuture[*int]()
	boom := errors.New("boom")
	f.settle(nil, boom, 702)

	select {
	case <-f.Done():
	default:
		t.Fatal("done not closed")
	}
	v, err := f.Result()
	assert.Nil(t, v)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 702, f.Code())
}

func TestFutureWaitContext(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
