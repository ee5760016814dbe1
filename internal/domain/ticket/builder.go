package ticket

import "strings"

// Builder accumulates ticket lines of a fixed width
type Builder struct {
	width int
	lines []string
}

// NewBuilder creates a builder for tickets w cells wide.
// A non-positive width selects DefaultWidth.
func NewBuilder(w int) *Builder {
	if w <= 0 {
		w = DefaultWidth
	}
	return &Builder{width: w}
}

// Width returns the ticket width in cells
func (b *Builder) Width() int {
	return b.width
}

// Line appends text as is, truncated to the ticket width
func (b *Builder) Line(text string) *Builder {
	b.lines = append(b.lines, truncate(text, b.width))
	return b
}

// Blank appends an empty line
func (b *Builder) Blank() *Builder {
	b.lines = append(b.lines, "")
	return b
}

// Center appends a centered line
func (b *Builder) Center(text string) *Builder {
	b.lines = append(b.lines, strings.TrimRight(Center(text, b.width), " "))
	return b
}

// Separator appends a dashed rule
func (b *Builder) Separator() *Builder {
	b.lines = append(b.lines, Separator(b.width))
	return b
}

// Row appends a label/value line with the value flush right
func (b *Builder) Row(label, value string) *Builder {
	b.lines = append(b.lines, Row(label, value, b.width))
	return b
}

// Wrap appends text wrapped to the ticket width
func (b *Builder) Wrap(text string) *Builder {
	b.lines = append(b.lines, Wrap(text, b.width)...)
	return b
}

// Lines returns a copy of the accumulated lines
func (b *Builder) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins the lines with "\n"
func (b *Builder) String() string {
	return strings.Join(b.lines, "\n")
}
