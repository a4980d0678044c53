package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := newAsyncWriter(buf, 10)

	p := []byte("first\n")
	n, err := w.Write(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)

	// The writer keeps its own copy
	copy(p, "XXXXX\n")

	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.Equal(t, "first\nsecond\n", buf.String())

	_, err = w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)

	assert.NoError(t, w.Close())
}
