package lines

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextTracksOffsetsAndStripsTerminator(t *testing.T) {
	r := NewReader(strings.NewReader("first\nsecond\nthird\n"))

	l1, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, Line{Offset: 0, Text: "first"}, l1)

	l2, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, Line{Offset: 6, Text: "second"}, l2)

	l3, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, Line{Offset: 13, Text: "third"}, l3)

	_, err = r.Next()
	require.Equal(t, io.EOF, err)
}

func TestNextStripsCRLF(t *testing.T) {
	r := NewReader(strings.NewReader("windows\r\nunix\n"))

	l1, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "windows", l1.Text)

	l2, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "unix", l2.Text)
}

func TestNextReturnsPartialFinalLine(t *testing.T) {
	r := NewReader(strings.NewReader("complete\npartial-no-newline"))

	l1, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "complete", l1.Text)

	l2, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "partial-no-newline", l2.Text)

	_, err = r.Next()
	require.Equal(t, io.EOF, err)
}

func TestNextOnEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Next()
	require.Equal(t, io.EOF, err)
}
