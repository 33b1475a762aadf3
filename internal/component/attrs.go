package component

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Value is a typed attribute value. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Value struct {
	Kind    Kind
	Str     string
	Num     float64
	Bool    bool
	Literal any
}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// LiteralValue wraps a decoded structured literal. Scalars are folded into
// their own kinds so callers never see a number hiding inside a literal.
func LiteralValue(v any) Value {
	switch t := v.(type) {
	case string:
		return StringValue(t)
	case float64:
		return NumberValue(t)
	case bool:
		return BoolValue(t)
	default:
		return Value{Kind: KindLiteral, Literal: t}
	}
}

// Interface returns the value as a plain Go value.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindLiteral:
		return v.Literal
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindLiteral:
		data, err := json.Marshal(v.Literal)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts any JSON value, folding scalars like LiteralValue.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = LiteralValue(raw)
	return nil
}

// Attributes maps attribute names to values. A later duplicate name
// overwrites an earlier one.
type Attributes map[string]Value

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map converts the attributes into plain Go values.
func (a Attributes) Map() map[string]any {
	out := make(map[string]any, len(a))
	for name, v := range a {
		out[name] = v.Interface()
	}
	return out
}

// Dialect selects how a raw attribute string is interpreted. The two
// dialects disagree on input such as name=value, so exactly one is active
// for any given tokenizer.
type Dialect uint8

const (
	// DialectBraces accepts name="text", name={literal} and bare name.
	DialectBraces Dialect = iota
	// DialectLegacy accepts name="text", name='text', name=value with
	// true/false/number coercion, and bare name.
	DialectLegacy
)

// ParseDialect maps a configuration string onto a Dialect.
func ParseDialect(s string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "braces", "jsx":
		return DialectBraces, true
	case "legacy":
		return DialectLegacy, true
	default:
		return DialectBraces, false
	}
}

func (d Dialect) String() string {
	if d == DialectLegacy {
		return "legacy"
	}
	return "braces"
}

func (d Dialect) Parse(raw string) Attributes {
	if d == DialectLegacy {
		return ParseLegacyAttributes(raw)
	}
	return ParseAttributes(raw)
}

// ParseAttributes parses raw in the braces dialect. It never fails: a
// braced expression that does not decode is kept as its raw text.
func ParseAttributes(raw string) Attributes {
	attrs := Attributes{}
	i := 0
	for i < len(raw) {
		if !isNameStart(raw[i]) {
			i++
			continue
		}

		start := i
		for i < len(raw) && isNameChar(raw[i]) {
			i++
		}
		name := raw[start:i]

		if i+1 >= len(raw) || raw[i] != '=' {
			attrs[name] = BoolValue(true)
			continue
		}

		switch raw[i+1] {
		case '"':
			end := strings.IndexByte(raw[i+2:], '"')
			if end < 0 {
				attrs[name] = StringValue(raw[i+2:])
				i = len(raw)
				continue
			}
			attrs[name] = StringValue(raw[i+2 : i+2+end])
			i += 2 + end + 1
		case '{':
			end := matchBrace(raw, i+1)
			if end < 0 {
				attrs[name] = StringValue(raw[i+2:])
				i = len(raw)
				continue
			}
			attrs[name] = decodeLiteral(raw[i+2 : end])
			i = end + 1
		default:
			// name=value is not part of this dialect; the name reads as a
			// bare flag and scanning resumes after the '='.
			attrs[name] = BoolValue(true)
			i++
		}
	}
	return attrs
}

// ParseLegacyAttributes parses raw in the legacy dialect.
func ParseLegacyAttributes(raw string) Attributes {
	attrs := Attributes{}
	i := 0
	for i < len(raw) {
		if !isWordChar(raw[i]) {
			i++
			continue
		}

		start := i
		for i < len(raw) && isWordChar(raw[i]) {
			i++
		}
		name := raw[start:i]

		j := skipSpaces(raw, i)
		if j >= len(raw) || raw[j] != '=' {
			attrs[name] = BoolValue(true)
			continue
		}
		j = skipSpaces(raw, j+1)
		if j >= len(raw) {
			attrs[name] = BoolValue(true)
			i = j
			continue
		}

		switch q := raw[j]; q {
		case '"', '\'':
			end := strings.IndexByte(raw[j+1:], q)
			if end < 0 {
				// An unbalanced quote is read as an unquoted token.
				value, next := unquotedToken(raw, j)
				attrs[name] = coerce(value)
				i = next
				continue
			}
			attrs[name] = StringValue(raw[j+1 : j+1+end])
			i = j + 1 + end + 1
		default:
			value, next := unquotedToken(raw, j)
			attrs[name] = coerce(value)
			i = next
		}
	}
	return attrs
}

func decodeLiteral(body string) Value {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return StringValue(body)
	}
	return LiteralValue(v)
}

func coerce(token string) Value {
	switch token {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return StringValue(token)
	}
	return NumberValue(n)
}

func unquotedToken(raw string, i int) (string, int) {
	start := i
	for i < len(raw) && !isSpace(raw[i]) {
		i++
	}
	return raw[start:i], i
}

// matchBrace returns the index of the '}' closing the '{' at open, skipping
// over quoted strings, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isWordChar(c) || c == ':' || c == '-'
}

func isWordChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
