package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pedoman/internal/interfaces"
	"github.com/ternarybob/pedoman/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// TranscriptTitle heads every exported conversation
const TranscriptTitle = "Percakapan Pedoman Skripsi"

// ErrEmptyTranscript is returned when a session has nothing to export
var ErrEmptyTranscript = errors.New("transcript has no messages")

const (
	fontFamily = "Arial"
	fontSize   = 10.0
	lineHeight = 5.0
)

// Service implements interfaces.PDFService
type Service struct {
	logger   arbor.ILogger
	markdown goldmark.Markdown
}

// Compile-time assertion
var _ interfaces.PDFService = (*Service)(nil)

// NewService creates a new PDF service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		),
	}
}

// RenderTranscript writes one block per message: speaker and time, the content, then sources and
// processing time for answers. User messages are plain text; answers are rendered from markdown.
func (s *Service) RenderTranscript(title string, messages []models.Message) ([]byte, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	s.logger.Debug().
		Int("messages", len(messages)).
		Str("title", title).
		Msg("Rendering chat transcript")

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	// Core fonts are cp1252; translate so Indonesian text with accents survives
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont(fontFamily, "B", 14)
	doc.MultiCell(0, 7, tr(title), "", "L", false)
	doc.Ln(4)

	for _, msg := range messages {
		s.writeHeader(doc, tr, msg)

		if msg.Role == models.RoleAssistant {
			source := []byte(msg.Content)
			r := &pdfRenderer{pdf: doc, source: source, tr: tr}
			r.updateFont()
			if err := r.render(s.markdown.Parser().Parse(text.NewReader(source))); err != nil {
				s.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to render answer")
				return nil, fmt.Errorf("failed to render message %s: %w", msg.ID, err)
			}
			s.writeSources(doc, tr, msg)
		} else {
			doc.SetFont(fontFamily, "", fontSize)
			doc.MultiCell(0, lineHeight, tr(msg.Content), "", "L", false)
		}
		doc.Ln(4)
	}

	if err := doc.Error(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("Transcript PDF generated")
	return buf.Bytes(), nil
}

func (s *Service) writeHeader(doc *fpdf.Fpdf, tr func(string) string, msg models.Message) {
	speaker := "Anda"
	if msg.Role == models.RoleAssistant {
		speaker = "Asisten"
	}
	header := fmt.Sprintf("%s - %s", speaker, msg.Timestamp.Format("02/01/2006 15:04"))
	if msg.Status == models.MessageStatusFailed {
		header += " (gagal terkirim)"
	}

	doc.SetFont(fontFamily, "B", fontSize)
	doc.SetFillColor(235, 240, 250)
	doc.CellFormat(0, 6, tr(header), "", 1, "L", true, 0, "")
	doc.SetFillColor(255, 255, 255)
	doc.Ln(1)
}

func (s *Service) writeSources(doc *fpdf.Fpdf, tr func(string) string, msg models.Message) {
	if len(msg.Sources) > 0 {
		doc.Ln(1)
		doc.SetFont(fontFamily, "B", 9)
		doc.CellFormat(0, lineHeight, tr("Sumber Referensi:"), "", 1, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 9)
		for _, src := range msg.Sources {
			doc.SetX(20)
			doc.MultiCell(0, 4.5, tr("- "+src.Line()), "", "L", false)
		}
	}
	if msg.ProcessingTime != nil {
		doc.SetFont(fontFamily, "I", 8)
		doc.CellFormat(0, lineHeight, tr("Waktu proses: "+models.FormatProcessingTime(*msg.ProcessingTime)), "", 1, "L", false, 0, "")
	}
}

// pdfRenderer walks a goldmark AST and writes it into the current page flow
type pdfRenderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	tr        func(string) string
	bold      bool
	italic    bool
	listLevel int
}

func (r *pdfRenderer) render(node ast.Node) error {
	return ast.Walk(node, r.walk)
}

func (r *pdfRenderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont(fontFamily, style, fontSize)
}

func (r *pdfRenderer) write(s string) {
	r.pdf.Write(lineHeight, r.tr(s))
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(2)
			size := 12.0
			if node.Level > 2 {
				size = 11
			}
			r.pdf.SetFont(fontFamily, "B", size)
		} else {
			r.pdf.Ln(lineHeight + 1)
			r.updateFont()
		}
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(lineHeight + 1)
		}
	case *ast.TextBlock:
		if !entering && r.listLevel > 0 {
			r.pdf.Ln(lineHeight)
		}
	case *ast.Text:
		if entering {
			r.write(string(node.Segment.Value(r.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.write(" ")
			}
		}
	case *ast.AutoLink:
		if entering {
			r.write(string(node.URL(r.source)))
		}
		return ast.WalkSkipChildren, nil
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case *ast.CodeSpan:
		if entering {
			r.pdf.SetFont("Courier", "", fontSize)
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					r.write(string(t.Segment.Value(r.source)))
				}
			}
			r.updateFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			r.renderCodeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			r.renderCodeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.List:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			r.pdf.SetX(15 + float64(r.listLevel)*5)
			r.write("- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	case *extast.Table:
		if entering {
			r.renderTable(r.tableRows(node))
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) renderCodeBlock(lines *text.Segments) {
	r.pdf.Ln(1)
	r.pdf.SetFont("Courier", "", 9)
	r.pdf.SetFillColor(245, 245, 245)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.pdf.MultiCell(0, 4.5, r.tr(string(line.Value(r.source))), "", "L", true)
	}
	r.pdf.SetFillColor(255, 255, 255)
	r.updateFont()
	r.pdf.Ln(2)
}

func (r *pdfRenderer) tableRows(table *extast.Table) [][]string {
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			rows = append(rows, r.cells(row))
		case *extast.TableRow:
			rows = append(rows, r.cells(row))
		}
	}
	return rows
}

func (r *pdfRenderer) cells(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, r.tr(string(cell.Text(r.source))))
		}
	}
	return cells
}

// renderTable draws equal-width columns; long cells wrap inside their row
func (r *pdfRenderer) renderTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	const (
		pageWidth  = 180.0
		cellSize   = 8.0
		cellHeight = 4.0
		maxLines   = 8
	)
	numCols := len(rows[0])
	colWidth := pageWidth / float64(numCols)

	r.pdf.Ln(1)
	for i, row := range rows {
		style := ""
		if i == 0 {
			style = "B"
			r.pdf.SetFillColor(230, 230, 230)
		}
		r.pdf.SetFont(fontFamily, style, cellSize)

		lines := 1
		for j := 0; j < numCols && j < len(row); j++ {
			if n := len(r.pdf.SplitText(row[j], colWidth-2)); n > lines {
				lines = n
			}
		}
		if lines > maxLines {
			lines = maxLines
		}
		rowHeight := float64(lines)*cellHeight + 2

		_, pageHeight := r.pdf.GetPageSize()
		_, _, _, bottom := r.pdf.GetMargins()
		if r.pdf.GetY()+rowHeight > pageHeight-bottom {
			r.pdf.AddPage()
		}

		startX, startY := r.pdf.GetX(), r.pdf.GetY()
		for j := 0; j < numCols; j++ {
			x := startX + float64(j)*colWidth
			if i == 0 {
				r.pdf.Rect(x, startY, colWidth, rowHeight, "FD")
			} else {
				r.pdf.Rect(x, startY, colWidth, rowHeight, "D")
			}
			if j >= len(row) {
				continue
			}
			wrapped := r.pdf.SplitText(row[j], colWidth-2)
			for k := 0; k < len(wrapped) && k < maxLines; k++ {
				r.pdf.SetXY(x+1, startY+1+float64(k)*cellHeight)
				r.pdf.CellFormat(colWidth-2, cellHeight, wrapped[k], "", 0, "L", false, 0, "")
			}
		}
		r.pdf.SetXY(startX, startY+rowHeight)
		r.pdf.SetFillColor(255, 255, 255)
	}

	r.pdf.Ln(2)
	r.updateFont()
}
