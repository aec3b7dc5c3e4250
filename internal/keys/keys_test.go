package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePlainText(t *testing.T) {
	assert.Equal(t, []byte("hello"), Encode("hello"))
	assert.Empty(t, Encode(""))
}

func TestEncodeUTF8Passthrough(t *testing.T) {
	assert.Equal(t, []byte("héllo → wörld"), Encode("héllo → wörld"))
}

func TestEncodeSpecialKeys(t *testing.T) {
	tests := []struct {
		input string
		want  []byte
	}{
		{"{ENTER}", []byte("\r")},
		{"{RETURN}", []byte("\r")},
		{"{TAB}", []byte("\t")},
		{"{ESC}", []byte("\x1b")},
		{"{ESCAPE}", []byte("\x1b")},
		{"{BACKSPACE}", []byte("\x7f")},
		{"{DELETE}", []byte("\x1b[3~")},
		{"{SPACE}", []byte(" ")},
		{"{UP}", []byte("\x1b[A")},
		{"{DOWN}", []byte("\x1b[B")},
		{"{RIGHT}", []byte("\x1b[C")},
		{"{LEFT}", []byte("\x1b[D")},
		{"{HOME}", []byte("\x1b[H")},
		{"{END}", []byte("\x1b[F")},
		{"{PGUP}", []byte("\x1b[5~")},
		{"{PAGEDOWN}", []byte("\x1b[6~")},
		{"{INSERT}", []byte("\x1b[2~")},
		{"{F1}", []byte("\x1bOP")},
		{"{F4}", []byte("\x1bOS")},
		{"{F5}", []byte("\x1b[15~")},
		{"{F12}", []byte("\x1b[24~")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.input))
		})
	}
}

func TestEncodeWholeTable(t *testing.T) {
	// Every token in the table round-trips through Encode.
	for name, want := range special {
		assert.Equal(t, want, Encode("{"+name+"}"), "token %s", name)
	}
}

func TestEncodeControlCombinations(t *testing.T) {
	assert.Equal(t, []byte{0x01}, Encode("{CTRL+A}"))
	assert.Equal(t, []byte{0x03}, Encode("{CTRL+C}"))
	assert.Equal(t, []byte{0x1a}, Encode("{CTRL+Z}"))
	assert.Equal(t, []byte{0x1c}, Encode(`{CTRL+\}`))
	assert.Equal(t, []byte{0x1f}, Encode("{CTRL+_}"))
}

func TestEncodeCaseInsensitive(t *testing.T) {
	assert.Equal(t, []byte("\r"), Encode("{enter}"))
	assert.Equal(t, []byte("\x1b[A"), Encode("{Up}"))
	assert.Equal(t, []byte{0x03}, Encode("{ctrl+c}"))
}

func TestEncodeMixedInput(t *testing.T) {
	assert.Equal(t, []byte("test\tmore\r"), Encode("test{TAB}more{ENTER}"))
	assert.Equal(t, []byte("\x1b[A\x1b[A\r"), Encode("{UP}{UP}{ENTER}"))
}

func TestEncodeUnknownTokenPassthrough(t *testing.T) {
	assert.Equal(t, []byte("{FOO}"), Encode("{FOO}"))
	assert.Equal(t, []byte("a{not a key}b"), Encode("a{not a key}b"))
}

func TestEncodeBraceEdgeCases(t *testing.T) {
	assert.Equal(t, []byte("{}"), Encode("{}"))
	assert.Equal(t, []byte("{unterminated"), Encode("{unterminated"))
	assert.Equal(t, []byte("}"), Encode("}"))
	// First close brace ends the token, matching non-greedy scanning.
	assert.Equal(t, []byte("{a{b}"), Encode("{a{b}"))
	assert.Equal(t, []byte("{}\r"), Encode("{}{ENTER}"))
}

func TestEncodeConcatenation(t *testing.T) {
	// Encoding distributes over concatenation when no token spans the
	// boundary.
	pairs := [][2]string{
		{"hello", "{ENTER}"},
		{"{UP}", "{DOWN}"},
		{"abc{TAB}", "def"},
		{"", "{F5}"},
	}
	for _, p := range pairs {
		joined := Encode(p[0] + p[1])
		parts := append(Encode(p[0]), Encode(p[1])...)
		assert.Equal(t, joined, parts)
	}
}

func TestAvailableSorted(t *testing.T) {
	names := Available()
	assert.Len(t, names, len(special))
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
	assert.Contains(t, names, "ENTER")
	assert.Contains(t, names, "CTRL+C")
}
