package iocli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeStdin возвращает файл, из которого читается input
func pipeStdin(t *testing.T, input string) *os.File {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
	})

	// Пишем в pipe в отдельной горутине, имитируя ввод пользователя
	go func() {
		_, _ = w.Write([]byte(input))
		_ = w.Close()
	}()

	return r
}

func TestStdio_Print(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(pipeStdin(t, ""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")

	assert.Equal(t, "hello world\ntest 1 abc", out.String())
}

func TestStdio_ReadInput(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(pipeStdin(t, "alice\n  bob  \nlast"), &out)

	first, err := stdio.ReadInput("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", first)

	// Буфер общий: вторая строка не теряется
	second, err := stdio.ReadInput("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "bob", second)

	// Последняя строка без перевода строки
	last, err := stdio.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", last)

	_, err = stdio.ReadInput("> ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Contains(t, out.String(), "Username: ")
}

func TestStdio_ReadPasswordFromPipe(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(pipeStdin(t, "secret1\n"), &out)

	password, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret1", password)
	assert.NotContains(t, out.String(), "secret1")
}
