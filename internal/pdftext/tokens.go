package pdftext

// Token is one positioned piece of text lifted from a page content stream.
// X/Y are in PDF user-space units with Y increasing upward, so higher Y means
// nearer the top of the page. Width is estimated from the active font size;
// it only needs to be good enough for gap-based column detection downstream.
type Token struct {
	Text  string
	X     float64
	Y     float64
	Width float64
	Page  int
}
