package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"labels-service/internal/models"
)

// LabelStore maps effective identifiers to pre-existing per-identifier PDF
// files in a configured directory. The store is read-only input: this
// service never creates or deletes label files.
type LabelStore struct {
	root string
}

func NewLabelStore(root string) *LabelStore {
	return &LabelStore{root: root}
}

// Path builds {root}/{effectiveId}.pdf.
func (s *LabelStore) Path(id int64) string {
	return filepath.Join(s.root, fmt.Sprintf("%d.pdf", id))
}

// Exists reports whether a label file is present for the identifier.
func (s *LabelStore) Exists(id int64) bool {
	info, err := os.Stat(s.Path(id))
	return err == nil && !info.IsDir()
}

// Read returns the label file's bytes.
func (s *LabelStore) Read(id int64) ([]byte, error) {
	return os.ReadFile(s.Path(id))
}

// Available reports whether the store root exists. A missing root is the
// one fatal precondition for running assembly.
func (s *LabelStore) Available() bool {
	info, err := os.Stat(s.root)
	return err == nil && info.IsDir()
}

// Report scans the root once for the advisory presence/count report.
func (s *LabelStore) Report() *models.LabelStoreReport {
	report := &models.LabelStoreReport{Root: s.root}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return report
	}
	report.Available = true

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			report.FileCount++
		}
	}
	return report
}
