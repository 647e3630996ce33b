package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"hscreport/internal/errors"
)

// A4 portrait content geometry in millimetres.
const (
	pageContentWidth = 190.0
	imageTop         = 40.0
	imageMaxHeight   = 200.0
)

// PDFComposer writes one subject document as an A4 portrait PDF. Page
// numbers render in the footer of every page after the title page, so
// the numbers the TOC promises line up with what the reader sees.
type PDFComposer struct {
	pdf        *gofpdf.Fpdf
	imageCount int
}

// NewPDFComposer creates an empty document.
func NewPDFComposer() *PDFComposer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return &PDFComposer{pdf: pdf}
}

func (c *PDFComposer) AddTitlePage(title, subtitle string) {
	c.pdf.AddPage()
	c.pdf.SetY(100)
	c.pdf.SetFont("Helvetica", "B", 28)
	c.pdf.CellFormat(0, 14, title, "", 1, "C", false, 0, "")
	c.pdf.Ln(6)
	c.pdf.SetFont("Helvetica", "", 18)
	c.pdf.CellFormat(0, 10, subtitle, "", 1, "C", false, 0, "")
}

func (c *PDFComposer) AddTOCPage(heading string, lines []string) {
	c.pdf.AddPage()
	c.pdf.SetFont("Helvetica", "B", 16)
	c.pdf.CellFormat(0, 10, heading, "", 1, "L", false, 0, "")
	c.pdf.Ln(4)
	c.pdf.SetFont("Helvetica", "", 10)
	for _, line := range lines {
		c.pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
}

func (c *PDFComposer) AddImagePage(title string, png []byte) error {
	c.pdf.AddPage()
	c.writePageTitle(title)
	return c.placeImage(png, imageTop, imageMaxHeight)
}

func (c *PDFComposer) AddDetailPage(title string, fields [][2]string, image []byte) error {
	c.pdf.AddPage()
	c.writePageTitle(title)

	c.pdf.SetY(34)
	for _, kv := range fields {
		if kv[1] == "" {
			continue
		}
		c.pdf.SetFont("Helvetica", "B", 11)
		c.pdf.CellFormat(55, 8, kv[0], "", 0, "L", false, 0, "")
		c.pdf.SetFont("Helvetica", "", 11)
		c.pdf.CellFormat(0, 8, kv[1], "", 1, "L", false, 0, "")
	}

	if len(image) > 0 {
		c.pdf.Ln(6)
		return c.placeImage(image, c.pdf.GetY(), 120)
	}
	return c.pdf.Error()
}

// WriteFile finalizes the document at path.
func (c *PDFComposer) WriteFile(path string) error {
	if err := c.pdf.OutputFileAndClose(path); err != nil {
		return errors.NewStorageError("failed to write pdf", err).
			WithContext("path", path)
	}
	return nil
}

func (c *PDFComposer) writePageTitle(title string) {
	c.pdf.SetFont("Helvetica", "B", 14)
	c.pdf.SetY(18)
	c.pdf.MultiCell(0, 8, title, "", "L", false)
}

// placeImage registers PNG bytes and draws them scaled to the content
// width, capped at maxHeight.
func (c *PDFComposer) placeImage(png []byte, top, maxHeight float64) error {
	c.imageCount++
	name := fmt.Sprintf("img-%d", c.imageCount)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if err := c.pdf.Error(); err != nil {
		return errors.NewRenderError("failed to register image", err)
	}

	width := pageContentWidth
	height := width * info.Height() / info.Width()
	if height > maxHeight {
		height = maxHeight
		width = height * info.Width() / info.Height()
	}
	x := (210.0 - width) / 2

	c.pdf.ImageOptions(name, x, top, width, height, false, opts, 0, "")
	return c.pdf.Error()
}
