package webhookclient

import "strings"

// escapes are applied one after another in this order. `\\` goes last, so
// `\\n` ends up as a backslash followed by a newline.
var escapes = []struct{ seq, char string }{
	{`\n`, "\n"},
	{`\t`, "\t"},
	{`\r`, "\r"},
	{`\'`, "'"},
	{`\"`, `"`},
	{`\\`, `\`},
}

// Unescape turns the escape sequences the assistant emits as text into the
// characters they stand for.
func Unescape(s string) string {
	for _, e := range escapes {
		s = strings.ReplaceAll(s, e.seq, e.char)
	}
	return s
}
