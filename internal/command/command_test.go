package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSet(t *testing.T) {
	cmd := Set("language", "go")

	line, err := Encode(cmd)
	require.NoError(t, err)
	require.Equal(t, `{"op":"Set","key":"language","value":"go"}`, line)

	got, err := Decode(line)
	require.NoError(t, err)
	require.Equal(t, cmd, got)
}

func TestEncodeDecodeRemove(t *testing.T) {
	cmd := Remove("language")

	line, err := Encode(cmd)
	require.NoError(t, err)
	require.Equal(t, `{"op":"Remove","key":"language"}`, line)

	got, err := Decode(line)
	require.NoError(t, err)
	require.Equal(t, cmd, got)
}

func TestEncodeDecodeRoundTripSpecialCharacters(t *testing.T) {
	cmd := Set("quote\"key", "line1\nline2\\backslash")

	line, err := Encode(cmd)
	require.NoError(t, err)

	got, err := Decode(line)
	require.NoError(t, err)
	require.Equal(t, cmd, got)
}

func TestDecodeUnknownOp(t *testing.T) {
	_, err := Decode(`{"op":"Bogus","key":"k"}`)
	require.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(`not json at all`)
	require.Error(t, err)
}
