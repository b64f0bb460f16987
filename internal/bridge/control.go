package bridge

import (
	"errors"
	"strconv"
	"strings"
)

// ControlWidth is the number of channels in one control line.
const ControlWidth = 4

// ControlVector is the payload of one ingestion exchange. It is reused
// between exchanges: channels not supplied by a line keep their value.
type ControlVector [ControlWidth]float64

// Apply decodes line into v and returns the number of channels assigned.
// A line without tokens clears every channel. Tokens past ControlWidth are
// ignored.
func (v *ControlVector) Apply(line string) int {
	tokens := Fields(line)
	if len(tokens) == 0 {
		*v = ControlVector{}
		return 0
	}
	n := len(tokens)
	if n > ControlWidth {
		n = ControlWidth
	}
	for i := 0; i < n; i++ {
		v[i] = ParseToken(tokens[i])
	}
	return n
}

// Fields splits a protocol line into tokens.
func Fields(line string) []string {
	return strings.Fields(line)
}

// ParseToken parses the longest leading decimal literal of tok. Trailing
// garbage such as the comma in "0.25," is ignored and a token with no
// numeric prefix yields 0.
func ParseToken(tok string) float64 {
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return v
	}
	if v, ok := parseSpecial(tok); ok {
		return v
	}
	end := numericPrefix(tok)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(tok[:end], 64)
	if err != nil {
		// out of range literals still yield ±Inf or 0
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	return v
}

func parseSpecial(tok string) (float64, bool) {
	body := tok
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	lower := strings.ToLower(body)
	switch {
	case strings.HasPrefix(lower, "infinity"), strings.HasPrefix(lower, "inf"):
		v, _ := strconv.ParseFloat(tok[:len(tok)-len(body)]+"Inf", 64)
		return v, true
	case strings.HasPrefix(lower, "nan"):
		v, _ := strconv.ParseFloat("NaN", 64)
		return v, true
	}
	return 0, false
}

// numericPrefix returns the length of the longest prefix of s of the form
// [+-]digits[.digits][(e|E)[+-]digits].
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// FormatValue renders a float the way every frame does.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatControl renders values as one control line, newline-terminated.
func FormatControl(values []float64) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(FormatValue(v))
	}
	b.WriteByte('\n')
	return b.String()
}
