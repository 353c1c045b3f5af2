package application

import (
	"strconv"
	"strings"
)

/* ----------------------------------------
	MENU
---------------------------------------- */

// MenuItem is one numbered choice. Choices are numbered from 1 in item order.
type MenuItem[T any] struct {
	Label string
	Value T
}

// Menu is a numbered list of choices printed as one prompt.
type Menu[T any] struct {
	Title  string // Printed above the items
	Footer string // Printed below the items
	Retry  string // Printed after an invalid choice
	Items  []MenuItem[T]
}

// Render returns the prompt text: title, numbered items, footer.
func (m Menu[T]) Render() string {
	var b strings.Builder
	b.WriteString(m.Title)
	for i, item := range m.Items {
		b.WriteString("\n")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(item.Label)
	}
	if m.Footer != "" {
		b.WriteString("\n")
		b.WriteString(m.Footer)
	}
	return b.String()
}

// Lookup returns the value of the item numbered by choice. The choice must
// be the bare number; surrounding whitespace is not accepted.
func (m Menu[T]) Lookup(choice string) (T, bool) {
	var zero T
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(m.Items) || strconv.Itoa(n) != choice {
		return zero, false
	}
	return m.Items[n-1].Value, true
}
