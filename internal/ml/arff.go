package ml

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AttributeType is the declared type of an ARFF attribute
type AttributeType string

const (
	AttributeNumeric AttributeType = "numeric"
	AttributeNominal AttributeType = "nominal"
	AttributeString  AttributeType = "string"
	AttributeDate    AttributeType = "date"
)

// Attribute is one column of the dataset structure
type Attribute struct {
	Name   string
	Type   AttributeType
	Values []string
}

// ValueIndex returns the position of a nominal value, or -1
func (a Attribute) ValueIndex(value string) int {
	for i, v := range a.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// Dataset is the attribute layout read from an ARFF header. The last
// attribute is the class attribute.
type Dataset struct {
	Relation   string
	Attributes []Attribute
	Rows       int
}

// ClassIndex returns the index of the class attribute
func (d *Dataset) ClassIndex() int {
	return len(d.Attributes) - 1
}

// ClassAttribute returns the class attribute
func (d *Dataset) ClassAttribute() Attribute {
	return d.Attributes[d.ClassIndex()]
}

// AttributeIndex returns the position of the named attribute, or -1
func (d *Dataset) AttributeIndex(name string) int {
	for i, a := range d.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// ParseARFF reads an ARFF document. Data rows are only checked for arity;
// sparse rows are rejected.
func ParseARFF(r io.Reader) (*Dataset, error) {
	ds := &Dataset{}
	inData := false
	lineNo := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if inData {
			if strings.HasPrefix(line, "{") {
				return nil, fmt.Errorf("%w: line %d: sparse data rows are not supported", ErrInvalidARFF, lineNo)
			}
			values, err := splitRow(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidARFF, lineNo, err)
			}
			if n := len(values); n != len(ds.Attributes) {
				return nil, fmt.Errorf("%w: line %d has %d values, expected %d", ErrInvalidARFF, lineNo, n, len(ds.Attributes))
			}
			ds.Rows++
			continue
		}

		keyword, rest := splitKeyword(line)
		switch strings.ToLower(keyword) {
		case "@relation":
			ds.Relation = unquote(rest)
		case "@attribute":
			attr, err := parseAttribute(rest)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidARFF, lineNo, err)
			}
			if ds.AttributeIndex(attr.Name) >= 0 {
				return nil, fmt.Errorf("%w: line %d: duplicate attribute %q", ErrInvalidARFF, lineNo, attr.Name)
			}
			ds.Attributes = append(ds.Attributes, attr)
		case "@data":
			inData = true
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrInvalidARFF, lineNo, keyword)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ARFF: %w", err)
	}

	if ds.Relation == "" {
		return nil, fmt.Errorf("%w: missing @relation", ErrInvalidARFF)
	}
	if len(ds.Attributes) < 2 {
		return nil, fmt.Errorf("%w: need at least one feature and a class attribute", ErrInvalidARFF)
	}
	if !inData {
		return nil, fmt.Errorf("%w: missing @data section", ErrInvalidARFF)
	}
	return ds, nil
}

func splitKeyword(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func parseAttribute(decl string) (Attribute, error) {
	name, rest, err := takeName(decl)
	if err != nil {
		return Attribute{}, err
	}
	if rest == "" {
		return Attribute{}, fmt.Errorf("attribute %q has no type", name)
	}

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return Attribute{}, fmt.Errorf("attribute %q has unterminated nominal list", name)
		}
		values, err := splitRow(rest[1:end])
		if err != nil {
			return Attribute{}, fmt.Errorf("attribute %q: %v", name, err)
		}
		if len(values) == 0 {
			return Attribute{}, fmt.Errorf("attribute %q has empty nominal list", name)
		}
		return Attribute{Name: name, Type: AttributeNominal, Values: values}, nil
	}

	kind, _ := splitKeyword(rest)
	switch strings.ToLower(kind) {
	case "numeric", "real", "integer":
		return Attribute{Name: name, Type: AttributeNumeric}, nil
	case "string":
		return Attribute{Name: name, Type: AttributeString}, nil
	case "date":
		return Attribute{Name: name, Type: AttributeDate}, nil
	default:
		return Attribute{}, fmt.Errorf("attribute %q has unsupported type %q", name, kind)
	}
}

// takeName reads a possibly quoted attribute name
func takeName(decl string) (string, string, error) {
	if decl == "" {
		return "", "", fmt.Errorf("attribute declaration is empty")
	}
	if q := decl[0]; q == '\'' || q == '"' {
		end := strings.IndexByte(decl[1:], q)
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quoted name")
		}
		return decl[1 : end+1], strings.TrimSpace(decl[end+2:]), nil
	}
	name, rest := splitKeyword(decl)
	return name, rest, nil
}

// splitRow splits comma separated values. Single or double quoted values may
// contain commas and backslash escaped quotes.
func splitRow(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var (
		values []string
		cur    strings.Builder
		quote  byte
		quoted bool
	)
	flush := func() {
		v := cur.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		values = append(values, v)
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0 && ch == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			cur.WriteByte(ch)
		case (ch == '\'' || ch == '"') && strings.TrimSpace(cur.String()) == "" && !quoted:
			cur.Reset()
			quote, quoted = ch, true
		case ch == ',':
			flush()
		case quoted && ch != ' ' && ch != '\t':
			return nil, fmt.Errorf("unexpected %q after quoted value", ch)
		case quoted:
		default:
			cur.WriteByte(ch)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quoted value")
	}
	flush()
	return values, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
