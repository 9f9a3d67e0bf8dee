package pdfcanvas

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcourtman/dashreport/internal/report"
)

func TestDocument_ProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}

	doc := New("P")
	w, h := doc.PageSize()
	if w <= 0 || h <= 0 {
		t.Fatalf("page size = %fx%f", w, h)
	}
	// A4 portrait in mm.
	if w > h {
		t.Errorf("portrait page wider than tall: %fx%f", w, h)
	}

	doc.AddPage()
	doc.SetFont("Arial", "B", 11)
	doc.SetTextColor(44, 62, 80)
	doc.Text(10, 15, "left", report.AlignLeft)
	doc.Text(w/2, 15, "centered", report.AlignCenter)
	doc.Text(w-10, 15, "right", report.AlignRight)
	doc.Image(buf.Bytes(), 10, 30, 60, 30)
	doc.AddPage()
	doc.Image(buf.Bytes(), 10, 30, 60, 30)

	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("missing PDF magic bytes")
	}
	if len(data) < 500 {
		t.Errorf("PDF seems too small: %d bytes", len(data))
	}
}

func TestLandscapeOrientation(t *testing.T) {
	doc := New("L")
	w, h := doc.PageSize()
	if w <= h {
		t.Errorf("landscape page = %fx%f", w, h)
	}
}

func TestImageTypeSniffing(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	if got := imageType(buf.Bytes()); got != "PNG" {
		t.Errorf("png payload sniffed as %q", got)
	}
	if got := imageType([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0}); got != "JPG" {
		t.Errorf("jpeg payload sniffed as %q", got)
	}
}
