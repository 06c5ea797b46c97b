package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх терминала
type Stdio struct {
	out   io.Writer
	in    *bufio.Reader
	stdin *os.File
}

// NewStdio создает IO для os.Stdin и os.Stdout
func NewStdio() *Stdio {
	return NewStdioFrom(os.Stdin, os.Stdout)
}

// NewStdioFrom создает IO для заданных файлов
func NewStdioFrom(stdin *os.File, out io.Writer) *Stdio {
	return &Stdio{
		out:   out,
		in:    bufio.NewReader(stdin),
		stdin: stdin,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword читает пароль без эха. Если stdin не терминал
// (пайп, скрипт), читается обычная строка.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	fd := int(s.stdin.Fd())
	if !term.IsTerminal(fd) {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(fd)
	s.Println()
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}
