package keys

import "sort"

// special maps uppercase token names to the byte sequences an xterm-style
// terminal expects. F1-F4 use the classic SS3 encodings, F5-F12 the
// CSI-tilde encodings.
var special = map[string][]byte{
	// Basic control keys
	"ENTER":     []byte("\r"),
	"RETURN":    []byte("\r"),
	"TAB":       []byte("\t"),
	"ESC":       []byte("\x1b"),
	"ESCAPE":    []byte("\x1b"),
	"BACKSPACE": []byte("\x7f"),
	"DELETE":    []byte("\x1b[3~"),
	"SPACE":     []byte(" "),

	// Arrow keys
	"UP":    []byte("\x1b[A"),
	"DOWN":  []byte("\x1b[B"),
	"RIGHT": []byte("\x1b[C"),
	"LEFT":  []byte("\x1b[D"),

	// Navigation keys
	"HOME":     []byte("\x1b[H"),
	"END":      []byte("\x1b[F"),
	"PGUP":     []byte("\x1b[5~"),
	"PAGEUP":   []byte("\x1b[5~"),
	"PGDN":     []byte("\x1b[6~"),
	"PAGEDOWN": []byte("\x1b[6~"),
	"INSERT":   []byte("\x1b[2~"),

	// Function keys
	"F1":  []byte("\x1bOP"),
	"F2":  []byte("\x1bOQ"),
	"F3":  []byte("\x1bOR"),
	"F4":  []byte("\x1bOS"),
	"F5":  []byte("\x1b[15~"),
	"F6":  []byte("\x1b[17~"),
	"F7":  []byte("\x1b[18~"),
	"F8":  []byte("\x1b[19~"),
	"F9":  []byte("\x1b[20~"),
	"F10": []byte("\x1b[21~"),
	"F11": []byte("\x1b[23~"),
	"F12": []byte("\x1b[24~"),

	// Control key combinations
	"CTRL+A":  {0x01},
	"CTRL+B":  {0x02},
	"CTRL+C":  {0x03},
	"CTRL+D":  {0x04},
	"CTRL+E":  {0x05},
	"CTRL+F":  {0x06},
	"CTRL+G":  {0x07},
	"CTRL+H":  {0x08},
	"CTRL+I":  []byte("\t"), // same as TAB
	"CTRL+J":  []byte("\n"),
	"CTRL+K":  {0x0b},
	"CTRL+L":  {0x0c},
	"CTRL+M":  []byte("\r"), // same as ENTER
	"CTRL+N":  {0x0e},
	"CTRL+O":  {0x0f},
	"CTRL+P":  {0x10},
	"CTRL+Q":  {0x11},
	"CTRL+R":  {0x12},
	"CTRL+S":  {0x13},
	"CTRL+T":  {0x14},
	"CTRL+U":  {0x15},
	"CTRL+V":  {0x16},
	"CTRL+W":  {0x17},
	"CTRL+X":  {0x18},
	"CTRL+Y":  {0x19},
	"CTRL+Z":  {0x1a},
	"CTRL+[":  {0x1b}, // same as ESC
	"CTRL+\\": {0x1c},
	"CTRL+]":  {0x1d},
	"CTRL+^":  {0x1e},
	"CTRL+_":  {0x1f},
}

// Encode converts a string with optional special key tokens into the raw
// bytes to write to a terminal. Literal text is emitted as UTF-8 unchanged.
// The function is pure: identical input always yields identical output.
func Encode(input string) []byte {
	out := make([]byte, 0, len(input))

	for i := 0; i < len(input); {
		open := indexFrom(input, '{', i)
		if open < 0 {
			out = append(out, input[i:]...)
			break
		}
		out = append(out, input[i:open]...)

		close := indexFrom(input, '}', open+1)
		if close < 0 {
			// Unterminated brace: literal text to the end.
			out = append(out, input[open:]...)
			break
		}
		name := input[open+1 : close]
		if name == "" {
			// "{}" is not a token.
			out = append(out, '{', '}')
			i = close + 1
			continue
		}
		if seq, ok := special[upper(name)]; ok {
			out = append(out, seq...)
		} else {
			// Unknown token: pass through verbatim, braces included.
			out = append(out, input[open:close+1]...)
		}
		i = close + 1
	}

	return out
}

// Available returns the sorted list of recognized token names.
func Available() []string {
	names := make([]string, 0, len(special))
	for name := range special {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func indexFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// upper ASCII-uppercases a token name. Token names are ASCII by
// construction; multi-byte runes simply never match the table.
func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
