package application

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console reads operator input line by line and writes prompts.
type Console struct {
	in   *bufio.Reader
	out  io.Writer
	echo bool
}

// NewConsole returns a console over in and out. With echo set, every line
// read is written back to out so piped sessions produce a readable
// transcript.
func NewConsole(in io.Reader, out io.Writer, echo bool) *Console {
	return &Console{
		in:   bufio.NewReader(in),
		out:  out,
		echo: echo,
	}
}

// Println writes a line to the console.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted text to the console.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// ReadLine returns the next line without its line terminator. It returns
// io.EOF once input is exhausted; a final unterminated line is returned
// first.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if c.echo {
		fmt.Fprintln(c.out, line)
	}
	return line, nil
}

// ask prints prompt and reads lines until validate accepts one, printing the
// prompt again before each retry.
func ask[T any](c *Console, prompt string, validate func(string) (T, bool)) (T, error) {
	for {
		c.Println(prompt)
		line, err := c.ReadLine()
		if err != nil {
			var zero T
			return zero, err
		}
		if v, ok := validate(line); ok {
			return v, nil
		}
	}
}

// choose prints the menu once and reads lines until one names an item,
// printing the menu's retry message after each invalid choice.
func choose[T any](c *Console, m Menu[T]) (T, error) {
	c.Println(m.Render())
	for {
		line, err := c.ReadLine()
		if err != nil {
			var zero T
			return zero, err
		}
		if v, ok := m.Lookup(line); ok {
			return v, nil
		}
		c.Println(m.Retry)
	}
}

// rawText adapts a validator so the accepted input text is returned as typed.
func rawText[T any](validate func(string) (T, bool)) func(string) (string, bool) {
	return func(s string) (string, bool) {
		if _, ok := validate(s); !ok {
			return "", false
		}
		return s, true
	}
}
