// Package pdftext lifts positioned text tokens out of PDF content streams.
// It tracks just enough of the text state machine (Tm/Td/TD/T*/Tf/TL) to
// recover each shown string's cursor position; full glyph metrics are out of
// scope, widths are estimated from the active font size.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/slatecrew/callsheet/internal/common"
)

// avgGlyphFactor estimates a glyph's advance as a fraction of font size.
// Proportional text averages out near half an em.
const avgGlyphFactor = 0.5

// ExtractTokens reads a PDF and returns all positioned text tokens in page
// order. Returns an error when the document is unreadable or carries no text.
func ExtractTokens(r io.Reader) ([]Token, error) {
	// pdfcpu needs a seeker; buffer the stream so callers can pass anything.
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(buf), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var tokens []Token
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		cr, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || cr == nil {
			continue
		}
		data, err := io.ReadAll(cr)
		if err != nil || len(data) == 0 {
			continue
		}
		tokens = append(tokens, scanContentStream(data, pageNr)...)
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("no text content found in PDF: %w", common.ErrEmptyDocument)
	}
	return tokens, nil
}

// textCursor is the slice of graphics state the scanner cares about.
type textCursor struct {
	x, y     float64
	lineX    float64 // x of the current line origin, for T* and TD
	fontSize float64
	leading  float64
}

// scanContentStream walks a page content stream and emits a Token for every
// string-showing operator at the current cursor position.
func scanContentStream(data []byte, pageNr int) []Token {
	var out []Token
	cur := textCursor{fontSize: 12, leading: 14}

	var operands []operand
	lex := newLexer(data)
	for {
		item, ok := lex.next()
		if !ok {
			break
		}
		switch item.kind {
		case itemNumber, itemString, itemArray:
			operands = append(operands, item)
		case itemOperator:
			switch item.text {
			case "BT":
				cur.x, cur.y, cur.lineX = 0, 0, 0
			case "Tf":
				if n, ok := lastNumber(operands, 0); ok && n > 0 {
					cur.fontSize = n
					if cur.leading < n {
						cur.leading = n * 1.2
					}
				}
			case "TL":
				if n, ok := lastNumber(operands, 0); ok {
					cur.leading = n
				}
			case "Td":
				if tx, ty, ok := lastTwoNumbers(operands); ok {
					cur.lineX += tx
					cur.x = cur.lineX
					cur.y += ty
				}
			case "TD":
				if tx, ty, ok := lastTwoNumbers(operands); ok {
					cur.leading = -ty
					cur.lineX += tx
					cur.x = cur.lineX
					cur.y += ty
				}
			case "Tm":
				// a b c d e f Tm: only the translation matters here.
				if len(operands) >= 6 {
					e, okE := asNumber(operands[len(operands)-2])
					f, okF := asNumber(operands[len(operands)-1])
					if okE && okF {
						cur.x, cur.y = e, f
						cur.lineX = e
					}
				}
			case "T*":
				cur.x = cur.lineX
				cur.y -= cur.leading
			case "Tj", "'":
				if item.text == "'" {
					cur.x = cur.lineX
					cur.y -= cur.leading
				}
				if s, ok := lastString(operands); ok {
					out = appendToken(out, &cur, s, pageNr)
				}
			case "\"":
				// aw ac (string) ": spacing operands ignored.
				if s, ok := lastString(operands); ok {
					cur.x = cur.lineX
					cur.y -= cur.leading
					out = appendToken(out, &cur, s, pageNr)
				}
			case "TJ":
				if arr, ok := lastArray(operands); ok {
					out = appendArrayTokens(out, &cur, arr, pageNr)
				}
			}
			operands = operands[:0]
		}
	}
	return out
}

// appendToken emits one token at the cursor and advances it.
func appendToken(out []Token, cur *textCursor, s string, pageNr int) []Token {
	if s == "" {
		return out
	}
	w := float64(len([]rune(s))) * cur.fontSize * avgGlyphFactor
	out = append(out, Token{Text: s, X: cur.x, Y: cur.y, Width: w, Page: pageNr})
	cur.x += w
	return out
}

// appendArrayTokens handles TJ arrays. Kerning adjustments are in thousandths
// of an em; a large negative adjustment is a deliberate horizontal jump, so
// the following string starts a new token rather than extending the last.
func appendArrayTokens(out []Token, cur *textCursor, arr []operand, pageNr int) []Token {
	const gapThreshold = -120
	pending := ""
	flush := func() {
		if pending != "" {
			out = appendToken(out, cur, pending, pageNr)
			pending = ""
		}
	}
	for _, op := range arr {
		switch op.kind {
		case itemString:
			pending += op.text
		case itemNumber:
			n, _ := asNumber(op)
			if n < gapThreshold {
				flush()
				cur.x += -n / 1000.0 * cur.fontSize
			}
		}
	}
	flush()
	return out
}

// --- operand helpers ---

func asNumber(op operand) (float64, bool) {
	if op.kind != itemNumber {
		return 0, false
	}
	n, err := strconv.ParseFloat(op.text, 64)
	return n, err == nil
}

func lastNumber(ops []operand, fromEnd int) (float64, bool) {
	idx := len(ops) - 1 - fromEnd
	if idx < 0 {
		return 0, false
	}
	return asNumber(ops[idx])
}

func lastTwoNumbers(ops []operand) (float64, float64, bool) {
	if len(ops) < 2 {
		return 0, 0, false
	}
	tx, okX := asNumber(ops[len(ops)-2])
	ty, okY := asNumber(ops[len(ops)-1])
	return tx, ty, okX && okY
}

func lastString(ops []operand) (string, bool) {
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].kind == itemString {
			return ops[i].text, true
		}
	}
	return "", false
}

func lastArray(ops []operand) ([]operand, bool) {
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].kind == itemArray {
			return ops[i].array, true
		}
	}
	return nil, false
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '(':
				sb.WriteByte('(')
			case ')':
				sb.WriteByte(')')
			default:
				// Octal escape (e.g. \040 for space).
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
						if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
							i++
							val = val*8 + int(raw[i]-'0')
						}
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
