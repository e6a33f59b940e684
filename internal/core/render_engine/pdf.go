package render_engine

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

const (
	marginMM      = 20.0
	titleSize     = 18.0
	headingSize   = 14.0
	subheadSize   = 12.0
	bodySize      = 10.0
	headingLineH  = 9.0
	subheadLineH  = 7.0
	bodyLineH     = 5.5
	labelColWidth = 50.0
	bulletIndent  = 6.0
)

var minutesLineRe = regexp.MustCompile(`(?i)\(\s*\d+(\s*-\s*\d+)?\s*(min|mins|minutes)\s*\)\s*:?$`)

// PDFRenderer lays a LessonPlan out as a printable document.
type PDFRenderer struct {
	log *logger.Logger
}

func NewPDFRenderer(log *logger.Logger) *PDFRenderer {
	if log == nil {
		log = logger.Nop()
	}
	return &PDFRenderer{log: log}
}

// Render returns PDF bytes. Any plan that satisfies the canonical section
// invariant renders; failures wrap ErrRender.
func (r *PDFRenderer) Render(plan *models.LessonPlan) (out []byte, err error) {
	if plan == nil || !plan.IsCanonical() {
		return nil, apperrors.New(apperrors.ErrRender, fmt.Errorf("plan does not hold the canonical sections"))
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = apperrors.New(apperrors.ErrRender, fmt.Errorf("layout panic: %v", rec))
		}
	}()

	start := time.Now()
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetTitle("Lesson Plan - "+plan.Request.SubjectName, true)
	pdf.SetCreator("Lessona", false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	writeTitle(pdf)
	writeDetails(pdf, plan)
	for _, s := range plan.Sections {
		writeSection(pdf, s)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.New(apperrors.ErrRender, err)
	}
	r.log.Debug("lesson plan rendered", "plan_id", plan.ID, "pages", pdf.PageCount(), "bytes", buf.Len(), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

func writeTitle(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 12, "LESSON PLAN", "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func writeDetails(pdf *gofpdf.Fpdf, plan *models.LessonPlan) {
	req := plan.Request
	focus := req.FocusTopic
	if strings.TrimSpace(focus) == "" {
		focus = "General Coverage"
	}
	rows := [][2]string{
		{"Subject:", req.SubjectName},
		{"Lecture Topic:", req.Topic},
		{"Focus Topic:", focus},
		{"Bloom's Taxonomy Level:", string(req.TaxonomyLevel)},
		{"AQF Level:", string(req.QualificationLevel)},
		{"Duration:", string(req.Duration)},
		{"Generated:", plan.GeneratedAt.Format("2006-01-02 15:04:05")},
	}

	pageW, _ := pdf.GetPageSize()
	valueW := pageW - 2*marginMM - labelColWidth

	pdf.SetFont("Helvetica", "", bodySize)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(211, 211, 211)
	for _, row := range rows {
		value := toWinAnsi(row[1])
		lines := pdf.SplitLines([]byte(value), valueW-2)
		h := float64(len(lines))*bodyLineH + 2
		if h < bodyLineH+2 {
			h = bodyLineH + 2
		}
		x, y := pdf.GetXY()
		pdf.Rect(x, y, labelColWidth, h, "FD")
		pdf.Rect(x+labelColWidth, y, valueW, h, "D")
		pdf.SetXY(x+1, y+1)
		pdf.CellFormat(labelColWidth-2, bodyLineH, toWinAnsi(row[0]), "", 0, "L", false, 0, "")
		pdf.SetXY(x+labelColWidth+1, y+1)
		pdf.MultiCell(valueW-2, bodyLineH, value, "", "L", false)
		pdf.SetXY(x, y+h)
	}
	pdf.Ln(10)
}

// subheadNeed is the room a "(N minutes)" subheading needs so it is never
// left alone at the foot of a page.
const subheadNeed = 1.5 + subheadLineH + bodyLineH

// sectionLead is the height of a heading plus the first body line, the part
// of a section that must land on the same page.
func sectionLead(body string) float64 {
	lead := 4 + headingLineH + 1.0
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "- "):
			return lead + bodyLineH
		case minutesLineRe.MatchString(line):
			return lead + subheadNeed
		default:
			return lead + bodyLineH
		}
	}
	return lead
}

func writeSection(pdf *gofpdf.Fpdf, s models.Section) {
	ensureSpace(pdf, sectionLead(s.Body))

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", headingSize)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, headingLineH, toWinAnsi(strings.ToUpper(s.Heading)), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetTextColor(0, 0, 0)
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	width := pageW - left - right

	for _, raw := range strings.Split(s.Body, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			pdf.Ln(2)
		case strings.HasPrefix(line, "- "):
			pdf.SetFont("Helvetica", "", bodySize)
			pdf.SetX(left + bulletIndent)
			pdf.MultiCell(width-bulletIndent, bodyLineH, toWinAnsi("• "+strings.TrimSpace(line[2:])), "", "L", false)
			pdf.Ln(0.8)
		case minutesLineRe.MatchString(line):
			ensureSpace(pdf, subheadNeed)
			pdf.Ln(1.5)
			pdf.SetFont("Helvetica", "B", subheadSize)
			pdf.MultiCell(width, subheadLineH, toWinAnsi(line), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", bodySize)
			pdf.MultiCell(width, bodyLineH, toWinAnsi(line), "", "L", false)
			pdf.Ln(1.5)
		}
	}
}

// ensureSpace starts a new page when fewer than need millimetres remain, so
// a heading is never left alone at the bottom of a page.
func ensureSpace(pdf *gofpdf.Fpdf, need float64) {
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if needsPageBreak(pdf.GetY(), need, pageH, bottom) {
		pdf.AddPage()
	}
}

func needsPageBreak(y, need, pageH, bottomMargin float64) bool {
	return y+need > pageH-bottomMargin
}
