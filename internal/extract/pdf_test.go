package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/joseph-ayodele/signloop/constants"
)

// buildPDF writes a minimal Helvetica PDF with one content stream per page.
// Without widths the font dictionary has no /Widths, as standard-14 fonts often do.
func buildPDF(widths bool, pages ...string) []byte {
	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding"
	if widths {
		font += " /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("500 ", 126-32+1)) + "]"
	}
	font += " >>"

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		font,
	}
	for i, content := range pages {
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

const (
	leasePage = "BT /F1 12 Tf 72 720 Td (the tenant shall pay rent monthly in advance) Tj " +
		"0 -14 Td (second line here) Tj " +
		"0 -14 Td [(late)-400(fees)] TJ ET"
	leaseText = "the tenant shall pay rent monthly in advance\nsecond line here\nlate fees"
)

func TestNativeReaderKeepsWordsAndLines(t *testing.T) {
	tests := []struct {
		name   string
		widths bool
	}{
		{name: "font with widths", widths: true},
		{name: "font without widths", widths: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, pages, err := nativeReader{}.ReadText(context.Background(), buildPDF(tt.widths, leasePage))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pages != 1 {
				t.Errorf("pages = %d, want 1", pages)
			}
			if got := strings.TrimSpace(text); got != leaseText {
				t.Errorf("text = %q, want %q", got, leaseText)
			}
		})
	}
}

func TestNativeReaderCountsPages(t *testing.T) {
	second := "BT /F1 12 Tf 72 720 Td (page two begins) Tj ET"
	text, pages, err := nativeReader{}.ReadText(context.Background(), buildPDF(false, leasePage, second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("pages = %d, want 2", pages)
	}
	want := leaseText + "\n\npage two begins"
	if got := strings.TrimSpace(text); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestExtractNativePDF(t *testing.T) {
	e := newTestExtractor(Config{})

	res, err := e.Extract(context.Background(), buildPDF(false, leasePage), constants.MimePDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Method != constants.MethodDirectParse {
		t.Errorf("Method = %s, want %s", res.Method, constants.MethodDirectParse)
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1", res.Pages)
	}
	if res.Text != leaseText {
		t.Errorf("Text = %q, want %q", res.Text, leaseText)
	}
	if res.Confidence == nil || *res.Confidence != 100 {
		t.Errorf("Confidence = %v, want 100", res.Confidence)
	}
}
