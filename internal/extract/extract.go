// Package extract pulls plain text out of uploaded resume files.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat is returned for anything that is not a PDF or DOCX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Text extracts plain text from an uploaded document. The format is decided
// by the filename extension, not by sniffing the content.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Image-only pages legitimately yield no text.
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, para := range docxParagraphs(doc.Editable().GetContent()) {
		textBuilder.WriteString(para)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

var runRe = regexp.MustCompile(`<w:t(?: [^>]*)?>([^<]*)</w:t>`)

var xmlUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// docxParagraphs splits the raw document.xml content into paragraphs and
// joins the text runs inside each one. Paragraphs without runs stay as
// empty strings so the line structure of the document survives.
func docxParagraphs(content string) []string {
	segments := strings.Split(content, "</w:p>")
	paras := make([]string, 0, len(segments))
	for _, segment := range segments {
		if !strings.Contains(segment, "<w:p") {
			continue
		}
		var b strings.Builder
		for _, m := range runRe.FindAllStringSubmatch(segment, -1) {
			b.WriteString(xmlUnescaper.Replace(m[1]))
		}
		paras = append(paras, b.String())
	}
	return paras
}
