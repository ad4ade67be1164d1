package table

import (
	"time"
	"unicode/utf8"
)

// DisplayTimeLayout is used for date columns.
const DisplayTimeLayout = "02 Jan 2006, 3:04 PM"

// Truncate keeps the first n characters and appends "..." only when the
// value is longer than over. Passing over == n gives plain truncation.
func Truncate(n, over int) func(any) string {
	return func(v any) string {
		s := Text(v)
		if utf8.RuneCountInString(s) <= n {
			return s
		}
		r := []rune(s)
		out := string(r[:n])
		if len(r) > over {
			out += "..."
		}
		return out
	}
}

// DateTime renders time values with DisplayTimeLayout and anything else as
// its raw text.
func DateTime(v any) string {
	if t, ok := v.(time.Time); ok && !t.IsZero() {
		return t.Local().Format(DisplayTimeLayout)
	}
	return Text(v)
}

// ActiveLabel renders booleans as Active or Inactive.
func ActiveLabel(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "Active"
		}
		return "Inactive"
	}
	return Text(v)
}
