package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarSink_KnownTotal(t *testing.T) {
	out := &bytes.Buffer{}
	sink := newBarSink(out)

	sink.Update(0, 100, "episode.mp3")
	first := sink.bar
	sink.Update(50, 100, "episode.mp3")
	sink.Update(100, 100, "episode.mp3")

	assert.Same(t, first, sink.bar)
	sink.Finish()
	assert.Nil(t, sink.bar)
	assert.Contains(t, out.String(), "episode.mp3")
}

func TestBarSink_NewLabelStartsNewBar(t *testing.T) {
	sink := newBarSink(&bytes.Buffer{})

	sink.Update(0, 10, "a.mp3")
	first := sink.bar
	sink.Update(0, -1, "b.mp3")

	require.NotNil(t, sink.bar)
	assert.NotSame(t, first, sink.bar)
	assert.Equal(t, "b.mp3", sink.label)
}

func TestBarSink_RetryRestartsBar(t *testing.T) {
	sink := newBarSink(&bytes.Buffer{})

	sink.Update(0, 10, "a.mp3")
	sink.Update(5, 10, "a.mp3")
	first := sink.bar
	sink.Update(0, 10, "a.mp3")

	assert.NotSame(t, first, sink.bar)
}

func TestBarSink_FinishWithoutBar(t *testing.T) {
	out := &bytes.Buffer{}
	sink := newBarSink(out)

	sink.Finish()
	assert.Empty(t, out.String())
}
