package services

import (
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DocumentMerger abstracts the PDF operations the assembler needs:
// validating one label file and concatenating the ordered parts into the
// output document.
type DocumentMerger interface {
	// PageCount parses the document and returns its page count; an error
	// means the file is not a readable PDF.
	PageCount(rs io.ReadSeeker) (int, error)

	// Merge concatenates the parts into w, preserving part order.
	Merge(parts []io.ReadSeeker, w io.Writer) error
}

// pdfcpuMerger is the production DocumentMerger.
type pdfcpuMerger struct {
	conf *model.Configuration
}

func NewPDFMerger() DocumentMerger {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuMerger{conf: conf}
}

func (m *pdfcpuMerger) PageCount(rs io.ReadSeeker) (int, error) {
	return api.PageCount(rs, m.conf)
}

func (m *pdfcpuMerger) Merge(parts []io.ReadSeeker, w io.Writer) error {
	return api.MergeRaw(parts, w, false, m.conf)
}
