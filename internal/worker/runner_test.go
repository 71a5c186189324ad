package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_DeliversResult(t *testing.T) {
	r := NewRunner[int](Immediate)

	var got int
	ch, err := r.Submit(func() (int, error) { return 42, nil }, func(v int, err error) {
		got = v
	})
	require.NoError(t, err)

	res := <-ch
	assert.Equal(t, 42, res.Value)
	assert.NoError(t, res.Err)
	assert.Equal(t, 42, got)
	assert.False(t, r.Busy())
}

func TestRunner_RejectsWhileBusy(t *testing.T) {
	r := NewRunner[string](nil)
	release := make(chan struct{})

	ch, err := r.Submit(func() (string, error) {
		<-release
		return "done", nil
	}, nil)
	require.NoError(t, err)
	assert.True(t, r.Busy())

	_, err = r.Submit(func() (string, error) { return "", nil }, nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	select {
	case res := <-ch:
		assert.Equal(t, "done", res.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not finish")
	}

	_, err = r.Submit(func() (string, error) { return "again", nil }, nil)
	assert.NoError(t, err)
}

func TestRunner_PropagatesErrorsAndPanics(t *testing.T) {
	r := NewRunner[int](Immediate)
	boom := errors.New("boom")

	ch, err := r.Submit(func() (int, error) { return 0, boom }, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, (<-ch).Err, boom)

	ch, err = r.Submit(func() (int, error) { panic("bad") }, nil)
	require.NoError(t, err)
	res := <-ch
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "bad")
}

func TestRunner_CallbackRunsThroughDispatcher(t *testing.T) {
	queue := make(chan func(), 1)
	r := NewRunner[int](func(f func()) { queue <- f })

	called := false
	_, err := r.Submit(func() (int, error) { return 1, nil }, func(int, error) { called = true })
	require.NoError(t, err)

	f := <-queue
	assert.False(t, called)
	assert.True(t, r.Busy())
	f()
	assert.True(t, called)
	assert.False(t, r.Busy())
}
