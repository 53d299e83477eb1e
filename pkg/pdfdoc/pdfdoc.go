// Package pdfdoc is a small drawing surface over go-pdf/fpdf for fixed-layout
// documents: A4 portrait, millimetres, core Helvetica fonts, no automatic page
// breaks. Text is accepted as UTF-8 and translated to cp1252 for the core fonts.
package pdfdoc

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// Color is an RGB triple, 0-255 per channel
type Color struct {
	R, G, B int
}

// Align controls horizontal placement of Text relative to x
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// FontStyle is an fpdf style string: "", "B", "I" or "BI"
type FontStyle string

const (
	Regular    FontStyle = ""
	Bold       FontStyle = "B"
	Italic     FontStyle = "I"
	BoldItalic FontStyle = "BI"
)

type options struct {
	title        string
	author       string
	compress     bool
	creationDate time.Time
}

// Option configures a Document
type Option func(*options)

func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

func WithAuthor(author string) Option {
	return func(o *options) { o.author = author }
}

// WithCompression toggles stream compression. Tests turn it off to grep content.
func WithCompression(on bool) Option {
	return func(o *options) { o.compress = on }
}

// WithCreationDate pins the document date so output is reproducible
func WithCreationDate(t time.Time) Option {
	return func(o *options) { o.creationDate = t }
}

// Document wraps one fpdf instance
type Document struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// New creates an empty A4 document. Call AddPage before drawing.
func New(opts ...Option) *Document {
	o := options{compress: true}
	for _, opt := range opts {
		opt(&o)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(o.compress)
	if o.title != "" {
		pdf.SetTitle(o.title, true)
	}
	if o.author != "" {
		pdf.SetAuthor(o.author, true)
	}
	pdf.SetCreator("gestion-api", true)
	if !o.creationDate.IsZero() {
		pdf.SetCreationDate(o.creationDate)
		pdf.SetModificationDate(o.creationDate)
	}
	pdf.SetFont(fontFamily, string(Regular), 10)

	return &Document{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *Document) AddPage() {
	d.pdf.AddPage()
}

func (d *Document) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

func (d *Document) SetFillColor(c Color) {
	d.pdf.SetFillColor(c.R, c.G, c.B)
}

func (d *Document) SetDrawColor(c Color) {
	d.pdf.SetDrawColor(c.R, c.G, c.B)
}

func (d *Document) SetTextColor(c Color) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *Document) SetFont(style FontStyle, size float64) {
	d.pdf.SetFont(fontFamily, string(style), size)
}

func (d *Document) SetLineWidth(w float64) {
	d.pdf.SetLineWidth(w)
}

func (d *Document) FillRect(x, y, w, h float64) {
	d.pdf.Rect(x, y, w, h, "F")
}

func (d *Document) StrokeRect(x, y, w, h float64) {
	d.pdf.Rect(x, y, w, h, "D")
}

func (d *Document) Line(x1, y1, x2, y2 float64) {
	d.pdf.Line(x1, y1, x2, y2)
}

// Text draws s with its baseline at y. For AlignRight x is the right edge,
// for AlignCenter the midpoint.
func (d *Document) Text(x, y float64, s string, align Align) {
	encoded := d.translate(s)
	switch align {
	case AlignRight:
		x -= d.pdf.GetStringWidth(encoded)
	case AlignCenter:
		x -= d.pdf.GetStringWidth(encoded) / 2
	}
	d.pdf.Text(x, y, encoded)
}

// TextWidth measures s in the current font
func (d *Document) TextWidth(s string) float64 {
	return d.pdf.GetStringWidth(d.translate(s))
}

// WrapText breaks s into lines no wider than width in the current font.
// Explicit newlines are kept; words wider than a full line are split.
func (d *Document) WrapText(s string, width float64) []string {
	return Wrap(s, width, d.TextWidth)
}

// Bytes finalises the document. The Document must not be drawn on afterwards.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdfdoc: output: %w", err)
	}
	return buf.Bytes(), nil
}

// Wrap greedily fills lines word by word using measure for widths
func Wrap(s string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			for measure(word) > width && len([]rune(word)) > 1 {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				head, tail := splitToFit(word, width, measure)
				lines = append(lines, head)
				word = tail
			}

			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current != "" && measure(candidate) > width {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}

func splitToFit(word string, width float64, measure func(string) float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
