package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/himanishpuri/DeckDiff/pkg/models"
)

// Page geometry in millimetres for A4 landscape.
const (
	margin    = 10.0
	gutter    = 10.0
	titleH    = 10.0
	barH      = 4.0
	labelH    = 6.0
	arrowSize = 5.0
	footerH   = 10.0
)

var (
	colorUnchanged = [3]int{46, 160, 67}
	colorChanged   = [3]int{215, 58, 73}
	colorAbsent    = [3]int{200, 200, 200}
	colorText      = [3]int{33, 33, 33}
	colorMove      = [3]int{0, 92, 197}
)

// DocumentInfo labels the two columns and the document metadata.
type DocumentInfo struct {
	SourceName string
	TargetName string
	Title      string
}

// PDFWriter draws one landscape page per PagePlan, in the order received.
type PDFWriter struct {
	pdf   *fpdf.Fpdf
	info  DocumentInfo
	links map[int]int
	pages int
}

// NewPDFWriter prepares an empty document. total is the number of plans that
// will be added, so move annotations can link forward to later pages.
func NewPDFWriter(info DocumentInfo, total int) *PDFWriter {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	if info.Title == "" {
		info.Title = fmt.Sprintf("%s vs %s", info.SourceName, info.TargetName)
	}
	pdf.SetTitle(info.Title, true)
	pdf.SetCreator("deckdiff", true)

	links := make(map[int]int, total)
	for n := 1; n <= total; n++ {
		id := pdf.AddLink()
		pdf.SetLink(id, 0, n)
		links[n] = id
	}
	return &PDFWriter{pdf: pdf, info: info, links: links}
}

// AddPage appends the output page for plan.
func (w *PDFWriter) AddPage(plan models.PagePlan) error {
	pdf := w.pdf
	pdf.AddPage()
	w.pages++

	pageW, pageH := pdf.GetPageSize()
	colW := (pageW - 2*margin - gutter) / 2

	pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin, titleH, ascii(plan.Title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin, titleH, plan.Kind.String(), "", 0, "R", false, 0, "")

	top := margin + titleH + 2
	bottom := pageH - margin - footerH
	w.drawSide(plan.Left, margin, top, colW, bottom-top, w.info.SourceName)
	w.drawSide(plan.Right, margin+colW+gutter, top, colW, bottom-top, w.info.TargetName)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(margin, pageH-margin-labelH)
	pdf.CellFormat(pageW-2*margin, labelH, fmt.Sprintf("Page %d", plan.Number), "", 0, "C", false, 0, "")

	return pdf.Error()
}

func (w *PDFWriter) drawSide(side *models.PageSide, x, y, width, height float64, deckName string) {
	pdf := w.pdf

	bar := colorAbsent
	if side != nil {
		bar = colorUnchanged
		if side.Changed {
			bar = colorChanged
		}
	}
	pdf.SetFillColor(bar[0], bar[1], bar[2])
	pdf.Rect(x, y, width, barH, "F")

	label := deckName
	if side != nil {
		label = fmt.Sprintf("%s - slide %d (%s)", deckName, side.Page.Position, side.Kind)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
	pdf.SetXY(x, y+barH)
	pdf.CellFormat(width, labelH, ascii(label), "", 0, "L", false, 0, "")

	imgTop := y + barH + labelH
	imgH := height - barH - labelH - arrowSize - 4
	if side == nil {
		pdf.SetDrawColor(colorAbsent[0], colorAbsent[1], colorAbsent[2])
		pdf.Rect(x, imgTop, width, imgH, "D")
		pdf.SetXY(x, imgTop+imgH/2-labelH/2)
		pdf.CellFormat(width, labelH, "(no slide)", "", 0, "C", false, 0, "")
		return
	}

	opts := fpdf.ImageOptions{ImageType: imageType(side.Page.ImagePath)}
	info := pdf.RegisterImageOptions(side.Page.ImagePath, opts)
	if info != nil && pdf.Ok() {
		drawW, drawH := fit(info.Width(), info.Height(), width, imgH)
		pdf.ImageOptions(side.Page.ImagePath, x+(width-drawW)/2, imgTop, drawW, drawH, false, opts, 0, "")
		pdf.SetDrawColor(bar[0], bar[1], bar[2])
		pdf.Rect(x+(width-drawW)/2, imgTop, drawW, drawH, "D")
	}

	if side.Move != nil {
		w.drawMove(side.Move, x, imgTop+imgH+2, width)
	}
}

// drawMove draws an arrow and a label that links to the peer's page.
func (w *PDFWriter) drawMove(move *models.MoveAnnotation, x, y, width float64) {
	pdf := w.pdf
	pdf.SetFillColor(colorMove[0], colorMove[1], colorMove[2])
	pdf.SetTextColor(colorMove[0], colorMove[1], colorMove[2])

	cx := x + arrowSize/2
	var pts []fpdf.PointType
	if move.Direction == models.Up {
		pts = []fpdf.PointType{{X: cx, Y: y}, {X: x, Y: y + arrowSize}, {X: x + arrowSize, Y: y + arrowSize}}
	} else {
		pts = []fpdf.PointType{{X: x, Y: y}, {X: x + arrowSize, Y: y}, {X: cx, Y: y + arrowSize}}
	}
	pdf.Polygon(pts, "F")

	text := fmt.Sprintf("moved %s - see page %d", move.Direction, move.TargetPage)
	pdf.SetFont("Helvetica", "U", 9)
	pdf.SetXY(x+arrowSize+2, y)
	pdf.CellFormat(width-arrowSize-2, arrowSize, text, "", 0, "L", false, w.links[move.TargetPage], "")
	pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
}

// Write emits the finished document.
func (w *PDFWriter) Write(out io.Writer) error {
	w.finish()
	return w.pdf.Output(out)
}

// WriteFile emits the finished document to path.
func (w *PDFWriter) WriteFile(path string) error {
	w.finish()
	return w.pdf.OutputFileAndClose(path)
}

// finish adds a placeholder page so an all-suppressed diff is still a valid PDF.
func (w *PDFWriter) finish() {
	if w.pages > 0 {
		return
	}
	w.pdf.AddPage()
	w.pdf.SetFont("Helvetica", "", 14)
	w.pdf.CellFormat(0, titleH, "No differences to show.", "", 0, "C", false, 0, "")
	w.pages++
}

// WriteDocument renders plans into a PDF at path.
func WriteDocument(path string, info DocumentInfo, plans []models.PagePlan) error {
	w := NewPDFWriter(info, len(plans))
	for _, p := range plans {
		if err := w.AddPage(p); err != nil {
			return fmt.Errorf("drawing page %d: %w", p.Number, err)
		}
	}
	if err := w.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// fit scales (w, h) to fit inside (maxW, maxH) keeping the aspect ratio.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if h*scale > maxH {
		scale = maxH / h
	}
	return w * scale, h * scale
}

func imageType(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "JPG"
	}
	return "PNG"
}

// ascii keeps the core fonts happy; they only cover Latin-1.
func ascii(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 126 {
			return '?'
		}
		return r
	}, s)
}
