// Package pdfcanvas implements the report canvas on top of go-pdf/fpdf.
package pdfcanvas

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-pdf/fpdf"

	"github.com/rcourtman/dashreport/internal/report"
)

// Document wraps an fpdf instance behind the report.Canvas interface.
type Document struct {
	pdf    *fpdf.Fpdf
	images int
}

// New opens an empty A4 document with the given orientation ("P" or "L").
// Pages are added explicitly by the driver; automatic page breaks would
// fight the slot grid.
func New(orientation string) report.Canvas {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return &Document{pdf: pdf}
}

func (d *Document) AddPage() {
	d.pdf.AddPage()
}

func (d *Document) PageSize() (w, h float64) {
	return d.pdf.GetPageSize()
}

func (d *Document) SetFont(family, style string, size float64) {
	d.pdf.SetFont(family, style, size)
}

func (d *Document) SetTextColor(r, g, b int) {
	d.pdf.SetTextColor(r, g, b)
}

func (d *Document) Text(x, y float64, text string, align report.Align) {
	switch align {
	case report.AlignCenter:
		x -= d.pdf.GetStringWidth(text) / 2
	case report.AlignRight:
		x -= d.pdf.GetStringWidth(text)
	}
	d.pdf.Text(x, y, text)
}

func (d *Document) Image(data []byte, x, y, w, h float64) {
	d.images++
	name := fmt.Sprintf("img-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: imageType(data), ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (d *Document) Save(path string) error {
	return d.pdf.OutputFileAndClose(path)
}

// imageType sniffs the fpdf image type token from the payload. Render
// backends return PNG unless asked otherwise, so that is the fallback.
func imageType(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return "PNG"
	}
}
