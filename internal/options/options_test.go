package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type limits struct {
	Words    uint64
	Depth    int
	LastCall string
}

func (l *limits) setWords(w uint64) error {
	if w == 0 {
		return errors.New("words must be positive")
	}
	l.Words = w
	l.LastCall = "setWords"

	return nil
}

func (l *limits) setDepth(d int) {
	l.Depth = d
	l.LastCall = "setDepth"
}

func withWords(w uint64) Option[*limits] {
	return New(func(l *limits) error { return l.setWords(w) })
}

func withDepth(d int) Option[*limits] {
	return NoError(func(l *limits) { l.setDepth(d) })
}

func TestNew(t *testing.T) {
	l := &limits{}

	require.NoError(t, withWords(64).apply(l))
	require.Equal(t, uint64(64), l.Words)

	err := withWords(0).apply(l)
	require.Error(t, err)
	require.Contains(t, err.Error(), "words must be positive")
	require.Equal(t, uint64(64), l.Words)
}

func TestNoError(t *testing.T) {
	l := &limits{}
	require.NoError(t, withDepth(8).apply(l))
	require.Equal(t, 8, l.Depth)
	require.Equal(t, "setDepth", l.LastCall)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		l := &limits{}
		require.NoError(t, Apply(l, withWords(1), withDepth(2), nil))
		require.Equal(t, uint64(1), l.Words)
		require.Equal(t, 2, l.Depth)
		require.Equal(t, "setDepth", l.LastCall)
	})

	t.Run("stops at first error", func(t *testing.T) {
		l := &limits{}
		err := Apply(l, withWords(5), withWords(0), withDepth(3))
		require.Error(t, err)
		require.Equal(t, uint64(5), l.Words)
		require.Zero(t, l.Depth)
	})

	t.Run("empty", func(t *testing.T) {
		l := &limits{}
		require.NoError(t, Apply(l))
		require.Equal(t, limits{}, *l)
	})
}

func TestApplyAndValidate(t *testing.T) {
	validate := func(l *limits) error {
		if l.Depth > int(l.Words) {
			return errors.New("depth exceeds words")
		}
		return nil
	}

	l := &limits{}
	require.NoError(t, ApplyAndValidate(l, validate, withWords(10), withDepth(3)))

	l = &limits{}
	err := ApplyAndValidate(l, validate, withWords(1), withDepth(3))
	require.EqualError(t, err, "depth exceeds words")

	l = &limits{}
	require.NoError(t, ApplyAndValidate(l, nil, withDepth(3)))

	l = &limits{}
	called := false
	err = ApplyAndValidate(l, func(*limits) error { called = true; return nil }, withWords(0))
	require.Error(t, err)
	require.False(t, called)
}
