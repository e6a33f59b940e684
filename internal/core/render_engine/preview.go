package render_engine

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

const (
	previewW = 800
	previewH = 450
)

var (
	fontsOnce sync.Once
	fontsErr  error
	boldFont  *truetype.Font
	plainFont *truetype.Font

	previewBG     = color.NRGBA{R: 0x0b, G: 0x1f, B: 0x5c, A: 0xff}
	previewAccent = color.NRGBA{R: 0xf5, G: 0xb7, B: 0x00, A: 0xff}
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if boldFont, fontsErr = truetype.Parse(gobold.TTF); fontsErr != nil {
			return
		}
		plainFont, fontsErr = truetype.Parse(goregular.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// RenderPreview draws a PNG cover card for list views: subject, topic and
// the pedagogical levels of the plan.
func (r *PDFRenderer) RenderPreview(plan *models.LessonPlan) ([]byte, error) {
	if plan == nil {
		return nil, apperrors.New(apperrors.ErrRender, fmt.Errorf("nil plan"))
	}
	if err := loadFonts(); err != nil {
		return nil, apperrors.New(apperrors.ErrRender, fmt.Errorf("load fonts: %w", err))
	}

	req := plan.Request
	dc := gg.NewContext(previewW, previewH)

	dc.SetColor(previewBG)
	dc.DrawRectangle(0, 0, previewW, previewH)
	dc.Fill()

	dc.SetColor(previewAccent)
	dc.DrawRectangle(0, 0, 12, previewH)
	dc.Fill()

	const left, width = 48.0, previewW - 96.0

	dc.SetFontFace(face(boldFont, 18))
	dc.SetColor(previewAccent)
	dc.DrawString("LESSON PLAN", left, 60)

	dc.SetFontFace(face(boldFont, 34))
	dc.SetColor(color.White)
	dc.DrawStringWrapped(req.SubjectName, left, 90, 0, 0, width, 1.2, gg.AlignLeft)

	topic := req.Topic
	if req.HasFocus() {
		topic += " / " + req.FocusTopic
	}
	dc.SetFontFace(face(plainFont, 22))
	dc.DrawStringWrapped(topic, left, 210, 0, 0, width, 1.3, gg.AlignLeft)

	dc.SetFontFace(face(plainFont, 16))
	dc.SetColor(color.NRGBA{R: 0xd0, G: 0xd8, B: 0xf0, A: 0xff})
	dc.DrawString(fmt.Sprintf("Bloom's: %s   |   %s", req.TaxonomyLevel, req.Duration), left, previewH-70)
	dc.DrawString(string(req.QualificationLevel), left, previewH-44)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, apperrors.New(apperrors.ErrRender, err)
	}
	return buf.Bytes(), nil
}
