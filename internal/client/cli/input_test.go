package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"double enter", "a\nb\n\n\n", "a\nb"},
		{"crlf", "a\r\nb\r\n\r\n", "a\nb"},
		{"eof without blank line", "a\nb", "a\nb"},
		{"immediate blank", "\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tt.input), "Enter text", &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	var out bytes.Buffer

	n, err := GetInt(rdr("7\n"), "Stress", &out)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = GetInt(rdr("\n"), "Stress", &out)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = GetInt(rdr("seven\n"), "Stress", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out)
	require.Error(t, err)
}
