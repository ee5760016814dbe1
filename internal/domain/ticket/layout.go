package ticket

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// Roll column counts
const (
	Columns58MM = 32
	Columns80MM = 48

	DefaultWidth = Columns58MM
)

// ColumnsForPaper returns the column count for a roll width in millimeters.
// Unknown widths get the 58mm column count.
func ColumnsForPaper(mm int) int {
	if mm >= 80 {
		return Columns80MM
	}
	return Columns58MM
}

// runeWidth returns the number of display cells used by r
func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// Width returns the display width of s
func Width(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// truncate cuts s so that it fits in w cells
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	n := 0
	for i, r := range s {
		rw := runeWidth(r)
		if n+rw > w {
			return s[:i]
		}
		n += rw
	}
	return s
}

// Center centers text in a field of w cells
func Center(text string, w int) string {
	t := truncate(text, w)
	pad := max(0, w-Width(t))
	left := pad / 2
	return strings.Repeat(" ", left) + t + strings.Repeat(" ", pad-left)
}

// PadRight left-aligns text in a field of w cells
func PadRight(text string, w int) string {
	t := truncate(text, w)
	return t + strings.Repeat(" ", max(0, w-Width(t)))
}

// PadLeft right-aligns text in a field of w cells
func PadLeft(text string, w int) string {
	t := truncate(text, w)
	return strings.Repeat(" ", max(0, w-Width(t))) + t
}

// Separator returns a dashed rule w cells wide
func Separator(w int) string {
	return strings.Repeat("-", max(0, w))
}

// Row renders a label and a value on one line, the value flush right.
// If both do not fit the label is truncated.
func Row(label, value string, w int) string {
	vw := Width(value)
	if vw >= w {
		return truncate(value, w)
	}
	return PadRight(label, w-vw) + value
}

// Wrap breaks text into lines of at most w cells on whitespace.
// Words longer than w are hard-split.
func Wrap(text string, w int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || w <= 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		next := word
		if current != "" {
			next = current + " " + word
		}
		if Width(next) <= w {
			current = next
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		for Width(word) > w {
			head := truncate(word, w)
			if head == "" {
				// a single rune wider than the field
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// Money formats an amount with two decimals and a comma separator (14400,00)
func Money(amount decimal.Decimal) string {
	return strings.Replace(amount.StringFixed(2), ".", ",", 1)
}
