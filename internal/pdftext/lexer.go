package pdftext

// A minimal content-stream lexer: numbers, literal strings, TJ arrays and
// operators. Names, dictionaries and hex strings are consumed and dropped;
// none of them carry the text this package is after.

type itemKind int

const (
	itemNumber itemKind = iota
	itemString
	itemArray
	itemOperator
)

type operand struct {
	kind  itemKind
	text  string
	array []operand
}

type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func (l *lexer) next() (operand, bool) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return operand{}, false
	}

	c := l.data[l.pos]
	switch {
	case c == '(':
		return operand{kind: itemString, text: l.readLiteralString()}, true
	case c == '[':
		return operand{kind: itemArray, array: l.readArray()}, true
	case c == '<':
		l.skipHexOrDict()
		return l.next()
	case c == '/':
		l.readName()
		return l.next()
	case c == '%':
		l.skipComment()
		return l.next()
	case isNumberStart(c):
		return operand{kind: itemNumber, text: l.readNumber()}, true
	default:
		return operand{kind: itemOperator, text: l.readOperator()}, true
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *lexer) skipComment() {
	for l.pos < len(l.data) && l.data[l.pos] != '\n' {
		l.pos++
	}
}

// readLiteralString consumes a (...) string honoring nesting and escapes.
func (l *lexer) readLiteralString() string {
	l.pos++ // opening paren
	start := l.pos
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		if c == '(' {
			depth++
		} else if c == ')' {
			depth--
			if depth == 0 {
				raw := l.data[start:l.pos]
				l.pos++
				return decodePDFString(raw)
			}
		}
		l.pos++
	}
	return decodePDFString(l.data[start:])
}

func (l *lexer) readArray() []operand {
	l.pos++ // opening bracket
	var out []operand
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return out
		}
		c := l.data[l.pos]
		if c == ']' {
			l.pos++
			return out
		}
		switch {
		case c == '(':
			out = append(out, operand{kind: itemString, text: l.readLiteralString()})
		case c == '<':
			l.skipHexOrDict()
		case isNumberStart(c):
			out = append(out, operand{kind: itemNumber, text: l.readNumber()})
		default:
			// Unexpected content inside a TJ array; bail out of it.
			l.pos++
		}
	}
}

// skipHexOrDict consumes <hex> strings and <<dict>> blocks.
func (l *lexer) skipHexOrDict() {
	if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
		depth := 0
		for l.pos < len(l.data) {
			if l.data[l.pos] == '<' {
				depth++
			} else if l.data[l.pos] == '>' {
				depth--
				if depth == 0 {
					l.pos++
					return
				}
			}
			l.pos++
		}
		return
	}
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	if l.pos < len(l.data) {
		l.pos++
	}
}

func (l *lexer) readName() {
	l.pos++ // slash
	for l.pos < len(l.data) && !isDelim(l.data[l.pos]) && !isSpace(l.data[l.pos]) {
		l.pos++
	}
}

func (l *lexer) readNumber() string {
	start := l.pos
	for l.pos < len(l.data) && (isNumberStart(l.data[l.pos]) || l.data[l.pos] == '.') {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

func (l *lexer) readOperator() string {
	start := l.pos
	for l.pos < len(l.data) && !isDelim(l.data[l.pos]) && !isSpace(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++ // lone delimiter; consume so the scan always advances
	}
	return string(l.data[start:l.pos])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
}
