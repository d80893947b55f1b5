package pegparser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const COMMENT_KEY_SUFFIX = "_comment"

// ParseError points at the offending byte of the input.
type ParseError struct {
	Filename string
	Line     int
	Col      int
	Msg      string
}

func (e *ParseError) Error() string {
	name := e.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Col, e.Msg)
}

type parser struct {
	filename string
	src      []byte
	pos      int
}

// ParseReader reads a .pbxproj document. The result is an Object holding
// "headComment" (when present) and "project". Entries of the project's
// "objects" dictionary are grouped into one section per isa.
func ParseReader(filename string, r io.Reader) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(filename, data)
}

func Parse(filename string, data []byte) (interface{}, error) {
	p := &parser{filename: filename, src: data}
	return p.parseDocument()
}

func (p *parser) errorf(format string, args ...interface{}) error {
	line, col := 1, 1
	end := p.pos
	if end > len(p.src) {
		end = len(p.src)
	}
	for _, c := range p.src[:end] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Filename: p.filename, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

func (p *parser) skipWhitespace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) skipLineComment() {
	for !p.eof() && p.src[p.pos] != '\n' {
		p.pos++
	}
}

// readBlockComment consumes /* ... */ and returns the trimmed text.
func (p *parser) readBlockComment() (string, error) {
	start := p.pos
	p.pos += 2
	end := bytes.Index(p.src[p.pos:], []byte("*/"))
	if end < 0 {
		p.pos = start
		return "", p.errorf("unterminated comment")
	}
	text := string(p.src[p.pos : p.pos+end])
	p.pos += end + 2
	return strings.TrimSpace(text), nil
}

// skipTrivia drops whitespace and every kind of comment.
func (p *parser) skipTrivia() error {
	for {
		p.skipWhitespace()
		switch {
		case p.hasPrefix("//"):
			p.skipLineComment()
		case p.hasPrefix("/*"):
			if _, err := p.readBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// readComment returns the block comment that directly follows a token, if any.
func (p *parser) readComment() (string, error) {
	for {
		p.skipWhitespace()
		if p.hasPrefix("//") {
			p.skipLineComment()
			continue
		}
		if p.hasPrefix("/*") {
			return p.readBlockComment()
		}
		return "", nil
	}
}

func (p *parser) expect(c byte) error {
	if err := p.skipTrivia(); err != nil {
		return err
	}
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, found end of input", c)
		}
		return p.errorf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) parseDocument() (interface{}, error) {
	doc := NewObject()
	p.skipWhitespace()
	if p.hasPrefix("//") {
		start := p.pos + 2
		p.skipLineComment()
		doc.Set("headComment", strings.TrimSpace(string(p.src[start:p.pos])))
	}
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	if p.peek() != '{' {
		return nil, p.errorf("expected top-level dictionary")
	}
	project, err := p.parseDictionary()
	if err != nil {
		return nil, err
	}
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected trailing content")
	}
	doc.Set("project", project)
	return doc, nil
}

func (p *parser) parseValue() (interface{}, error) {
	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	switch c := p.peek(); {
	case p.eof():
		return nil, p.errorf("unexpected end of input")
	case c == '{':
		return p.parseDictionary()
	case c == '(':
		return p.parseArray()
	case c == '"':
		return p.parseQuoted()
	default:
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if n, ok := toInt(lit); ok {
			return n, nil
		}
		return lit, nil
	}
}

func (p *parser) parseKey() (string, error) {
	if err := p.skipTrivia(); err != nil {
		return "", err
	}
	if p.peek() == '"' {
		return p.parseQuoted()
	}
	return p.parseLiteral()
}

func (p *parser) parseDictionary() (Object, error) {
	if err := p.expect('{'); err != nil {
		return Object{}, err
	}
	dict := NewObject()
	for {
		if err := p.skipTrivia(); err != nil {
			return Object{}, err
		}
		if p.peek() == '}' {
			p.pos++
			return dict, nil
		}
		key, err := p.parseKey()
		if err != nil {
			return Object{}, err
		}
		keyComment, err := p.readComment()
		if err != nil {
			return Object{}, err
		}
		if err := p.expect('='); err != nil {
			return Object{}, err
		}
		value, err := p.parseValue()
		if err != nil {
			return Object{}, err
		}
		valueComment, err := p.readComment()
		if err != nil {
			return Object{}, err
		}
		if err := p.expect(';'); err != nil {
			return Object{}, err
		}

		if obj, ok := value.(Object); ok && key == "objects" {
			value = groupSections(obj)
		}
		dict.Set(key, value)

		comment := valueComment
		if _, ok := value.(Object); ok || comment == "" {
			comment = keyComment
		}
		if comment != "" {
			dict.Set(key+COMMENT_KEY_SUFFIX, comment)
		}
	}
}

func (p *parser) parseArray() ([]interface{}, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	arr := []interface{}{}
	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		if p.peek() == ')' {
			p.pos++
			return arr, nil
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		comment, err := p.readComment()
		if err != nil {
			return nil, err
		}
		if str, ok := value.(string); ok && comment != "" {
			value = NewObjectWithData([]ObjectItem{
				NewObjectItem("value", str),
				NewObjectItem("comment", comment),
			})
		}
		arr = append(arr, value)

		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
		default:
			return nil, p.errorf("expected ',' or ')' in array")
		}
	}
}

// parseQuoted returns the string token with its quotes and escapes intact.
func (p *parser) parseQuoted() (string, error) {
	start := p.pos
	p.pos++
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case '"':
			p.pos++
			return string(p.src[start:p.pos]), nil
		default:
			p.pos++
		}
	}
	p.pos = start
	return "", p.errorf("unterminated string")
}

func (p *parser) parseLiteral() (string, error) {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if strings.IndexByte(" \t\r\n{}()=;,\"", c) >= 0 || p.hasPrefix("/*") {
			break
		}
		p.pos++
	}
	if p.pos == start {
		if p.eof() {
			return "", p.errorf("unexpected end of input")
		}
		return "", p.errorf("unexpected %q", p.peek())
	}
	return string(p.src[start:p.pos]), nil
}

// toInt only accepts canonical decimals so that values such as 5.0, 0755 or
// 24-digit object ids are written back exactly as they were read.
func toInt(lit string) (int, bool) {
	if len(lit) == 0 || len(lit) > 9 {
		return 0, false
	}
	if len(lit) > 1 && lit[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(lit); i++ {
		if lit[i] < '0' || lit[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(lit)
	if err != nil {
		return 0, false
	}
	return n, true
}

func groupSections(objects Object) Object {
	sections := NewObject()
	objects.Foreach(func(key string, val interface{}) IterateActionType {
		obj, ok := val.(Object)
		if !ok {
			return IterateActionContinue
		}
		isa := Unquote(obj.GetString("isa"))
		section, found := sections.Get(isa)
		if !found {
			section = NewObject()
			sections.Set(isa, section)
		}
		section.(Object).Set(key, obj)
		if comment := objects.GetString(key + COMMENT_KEY_SUFFIX); comment != "" {
			section.(Object).Set(key+COMMENT_KEY_SUFFIX, comment)
		}
		return IterateActionContinue
	})
	return sections
}
