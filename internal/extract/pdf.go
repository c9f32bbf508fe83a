// Package extract pulls plain text out of receipt documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is wrapped by every error returned when a document yields no
// usable text.
var ErrUnreadable = errors.New("document unreadable")

// maxTextBytes caps the plain-text fallback; receipts are a page or two.
const maxTextBytes = 1 << 20

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two glyphs belong to different words. TJ kerning stays well below it.
const wordGap = 0.15

// PDF extracts text from PDF documents held in memory.
type PDF struct{}

// Text returns the document text with one line per visual row and pages
// joined by newlines. Glyph positions are tried first; the row grouping of
// the pdf library and then its plain text are fallbacks for documents whose
// glyph widths are unknown.
func (PDF) Text(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf reader panicked: %v", ErrUnreadable, r)
		}
	}()

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrUnreadable)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: opening pdf: %v", ErrUnreadable, err)
	}
	if r.NumPage() == 0 {
		return "", fmt.Errorf("%w: pdf has no pages", ErrUnreadable)
	}

	if text := strings.Join(byContent(r), "\n"); readable(text) {
		return text, nil
	}
	if text := strings.Join(byRow(r), "\n"); readable(text) {
		return text, nil
	}

	plain, err := plainText(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if strings.TrimSpace(plain) == "" {
		return "", fmt.Errorf("%w: no text layer (scanned image?)", ErrUnreadable)
	}
	return plain, nil
}

// readable reports whether text looks like words rather than glyphs piled at
// one position, which is what zero-width fonts produce.
func readable(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && strings.ContainsAny(text, " \t")
}

type glyph struct {
	x, w, size float64
	s          string
}

// byContent rebuilds lines from glyph positions: glyphs are grouped by
// rounded baseline, ordered left to right, and a space is inserted only where
// the gap after the previous glyph is wider than wordGap. A content stream
// the library cannot interpret yields nothing, leaving the fallbacks to try.
func byContent(r *pdf.Reader) (pages []string) {
	defer func() {
		if recover() != nil {
			pages = nil
		}
	}()
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]glyph)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], glyph{x: t.X, w: t.W, size: t.FontSize, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		// PDF y grows upwards.
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		lines := make([]string, 0, len(ys))
		for _, y := range ys {
			if line := joinGlyphs(rows[y]); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func joinGlyphs(glyphs []glyph) string {
	sort.SliceStable(glyphs, func(a, b int) bool { return glyphs[a].x < glyphs[b].x })

	var sb strings.Builder
	for j, g := range glyphs {
		if j > 0 {
			prev := glyphs[j-1]
			if g.x-(prev.x+prev.w) > wordGap*math.Max(g.size, prev.size) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.s)
	}
	return strings.TrimSpace(sb.String())
}

func byRow(r *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func plainText(r *pdf.Reader) (string, error) {
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting plain text: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(reader, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("reading plain text: %w", err)
	}
	return string(data), nil
}
