package command

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/servo"
)

var resetTokens = []string{"q", "elf2uf2-term"}

// keywords are matched in this order, first match wins.
var keywords = []struct {
	word   string
	target servo.Identity
}{
	{"arm", servo.Arm},
	{"thumb", servo.Thumb},
	{"fingers", servo.Fingers},
}

// Parser converts lines into commands.
type Parser struct {
	// PrefixMatch accepts any line starting with a servo keyword,
	// e.g. "armrest 10" is accepted as "arm 10".
	// By default the first token must equal the keyword.
	PrefixMatch bool
}

// DefaultParser matches whole keywords.
var DefaultParser = &Parser{}

// Parse parses a line with DefaultParser.
func Parse(raw []byte) Command {
	return DefaultParser.Parse(raw)
}

// TrimASCIIWhitespace returns the sub-slice without leading and
// trailing ASCII whitespace. It returns an empty slice if only
// whitespace is present.
func TrimASCIIWhitespace(b []byte) []byte {
	from := 0
	for from < len(b) && isASCIISpace(b[from]) {
		from++
	}
	if from == len(b) {
		return b[:0]
	}
	to := len(b) - 1
	for isASCIISpace(b[to]) {
		to--
	}
	return b[from : to+1]
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Parse converts a line into a Command.
// It returns nil if the line is not a valid command.
func (p *Parser) Parse(raw []byte) Command {
	line := TrimASCIIWhitespace(raw)
	if !utf8.Valid(line) {
		glog.V(2).Infof("drop invalid UTF-8 line %q", line)
		return nil
	}
	text := strings.TrimSpace(string(line))

	for _, token := range resetTokens {
		if strings.EqualFold(text, token) {
			return ResetRequest{}
		}
	}

	fields := strings.Fields(text)
	target, ok := p.matchKeyword(text, fields)
	if !ok {
		glog.V(2).Infof("drop unknown command %q", text)
		return nil
	}
	if len(fields) < 2 {
		glog.V(2).Infof("drop command without degrees %q", text)
		return nil
	}
	degrees, ok := parseDegrees(fields[1])
	if !ok {
		glog.V(2).Infof("drop command with invalid degrees %q", text)
		return nil
	}
	return MoveRequest{Target: target, Degrees: degrees}
}

func (p *Parser) matchKeyword(text string, fields []string) (servo.Identity, bool) {
	for _, kw := range keywords {
		if p.PrefixMatch {
			if strings.HasPrefix(text, kw.word) {
				return kw.target, true
			}
		} else if len(fields) > 0 && fields[0] == kw.word {
			return kw.target, true
		}
	}
	return 0, false
}

func parseDegrees(s string) (uint8, bool) {
	if len(s) > 1 && s[0] == '+' {
		s = s[1:]
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}
