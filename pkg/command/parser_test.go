package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/servo.go/pkg/servo"
)

func TestTrimASCIIWhitespace(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		expect string
	}{
		{"empty", "", ""},
		{"spaces only", "   ", ""},
		{"all kinds", " \t\r\n\f", ""},
		{"nothing to trim", "arm 45", "arm 45"},
		{"leading", "  arm 45", "arm 45"},
		{"trailing", "arm 45\r\n", "arm 45"},
		{"both keep inner", "\t thumb \t 90  \n", "thumb \t 90"},
		{"single byte", " q ", "q"},
		{"vertical tab kept", "\varm\v", "\varm\v"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, string(TrimASCIIWhitespace([]byte(tc.in))))
		})
	}
}

func TestTrimASCIIWhitespaceProperties(t *testing.T) {
	ws := []byte{' ', '\t', '\n', '\f', '\r'}
	for i := 0; i < 64; i++ {
		var in []byte
		for n := 0; n < i; n++ {
			in = append(in, ws[(i+n)%len(ws)])
		}
		require.Empty(t, TrimASCIIWhitespace(in))

		content := []byte("a \tb")
		wrapped := append(append(append([]byte{}, in...), content...), in...)
		require.Equal(t, content, TrimASCIIWhitespace(wrapped))
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		expect Command
	}{
		{"arm", "arm 45", MoveRequest{Target: servo.Arm, Degrees: 45}},
		{"thumb", "thumb 10", MoveRequest{Target: servo.Thumb, Degrees: 10}},
		{"fingers", "fingers 255", MoveRequest{Target: servo.Fingers, Degrees: 255}},
		{"zero", "fingers 0", MoveRequest{Target: servo.Fingers, Degrees: 0}},
		{"padded", "  thumb 90  \n", MoveRequest{Target: servo.Thumb, Degrees: 90}},
		{"crlf", "arm 1\r\n", MoveRequest{Target: servo.Arm, Degrees: 1}},
		{"inner whitespace", "arm \t 7", MoveRequest{Target: servo.Arm, Degrees: 7}},
		{"extra tokens ignored", "arm 7 8 9", MoveRequest{Target: servo.Arm, Degrees: 7}},
		{"plus sign", "arm +7", MoveRequest{Target: servo.Arm, Degrees: 7}},
		{"no value", "arm", nil},
		{"out of range", "arm 300", nil},
		{"negative", "arm -1", nil},
		{"not a number", "arm x", nil},
		{"only plus", "arm +", nil},
		{"glued value", "arm45", nil},
		{"case mismatch", "ARM 10", nil},
		{"not first token", "move arm 10", nil},
		{"whole token required", "armrest 10", nil},
		{"unknown", "hello", nil},
		{"empty", "", nil},
		{"whitespace", " \r\n", nil},
		{"invalid utf8", "arm \xff10", nil},
		{"reset q", "q", ResetRequest{}},
		{"reset Q", "Q", ResetRequest{}},
		{"reset padded", "  q\r\n", ResetRequest{}},
		{"reset term", "elf2uf2-term", ResetRequest{}},
		{"reset term upper", "ELF2UF2-TERM", ResetRequest{}},
		{"reset term mixed", "Elf2Uf2-Term", ResetRequest{}},
		{"quit is not reset", "quit", nil},
		{"q with args is not reset", "q 1", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Parse([]byte(tc.in)))
		})
	}
}

func TestParsePrefixMatch(t *testing.T) {
	p := &Parser{PrefixMatch: true}
	require.Equal(t, MoveRequest{Target: servo.Arm, Degrees: 10}, p.Parse([]byte("armrest 10")))
	require.Equal(t, MoveRequest{Target: servo.Thumb, Degrees: 3}, p.Parse([]byte("thumbs 3")))
	require.Equal(t, MoveRequest{Target: servo.Arm, Degrees: 45}, p.Parse([]byte("arm 45")))
	require.Nil(t, p.Parse([]byte("arm45")))
	require.Nil(t, p.Parse([]byte("ARM 10")))
	require.Equal(t, ResetRequest{}, p.Parse([]byte("q")))
}

func TestMoveRequestString(t *testing.T) {
	require.Equal(t, "fingers 255", MoveRequest{Target: servo.Fingers, Degrees: 255}.String())
}
