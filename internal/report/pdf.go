package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/signintech/gopdf"

	"github.com/allyhealth/previsit/internal/extract"
)

// Common DejaVu locations across Debian and Alpine images.
var fontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
}

const (
	titleSize   = 18
	headingSize = 13
	bodySize    = 10
	lineWidth   = 500
)

// Render produces the PDF report for a profile.
func Render(p extract.PatientProfile) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	loaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			loaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !loaded {
		return nil, fmt.Errorf("load report font: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", titleSize); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Pre-Visit Patient Report")
	pdf.Br(20)

	if err := pdf.SetFont("DejaVu", "", bodySize); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 MST"))
	pdf.Br(24)

	for _, section := range Sections(p) {
		if err := pdf.SetFont("DejaVu", "", headingSize); err != nil {
			return nil, err
		}
		pdf.Cell(nil, section.Title)
		pdf.Br(16)

		if err := pdf.SetFont("DejaVu", "", bodySize); err != nil {
			return nil, err
		}
		for _, line := range section.Lines {
			wrapped, _ := pdf.SplitText(line, lineWidth)
			for _, l := range wrapped {
				pdf.Cell(nil, l)
				pdf.Br(13)
			}
		}
		pdf.Br(10)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
