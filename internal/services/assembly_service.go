package services

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"labels-service/internal/models"
	"labels-service/internal/repository"
	"labels-service/internal/sessions"
)

// ErrLabelStoreMissing is the one fatal assembly precondition: the label
// store root does not exist. It is checked before any row is processed.
var ErrLabelStoreMissing = fmt.Errorf("label store directory does not exist")

// AssemblyService runs the label pipeline: resolve each line item to a
// label file and concatenate the matched files, repeated by quantity, into
// one output document. Rows are processed strictly in sheet order because
// page order and accumulated counts are order-dependent.
type AssemblyService struct {
	store  *LabelStore
	merger DocumentMerger
	audit  *repository.AuditRepository
	logger *logrus.Logger
}

func NewAssemblyService(store *LabelStore, merger DocumentMerger, audit *repository.AuditRepository, logger *logrus.Logger) *AssemblyService {
	return &AssemblyService{
		store:  store,
		merger: merger,
		audit:  audit,
		logger: logger,
	}
}

// Assemble processes the line items into the run. Per-row problems (bad
// id, missing file, unreadable PDF) never abort the run: they accumulate
// into the result and processing continues. The run always completes with
// a result, even when zero rows survive.
func (s *AssemblyService) Assemble(run *sessions.AssemblyRun, items []models.LineItem) error {
	if !s.store.Available() {
		run.Fail()
		return ErrLabelStoreMissing
	}

	result := models.NewAssemblyResult()
	run.Begin(len(items))

	var parts []io.ReadSeeker
	// Each label file is read once per run even when referenced by
	// several rows; repeats reuse the same bytes.
	fileCache := make(map[int64][]byte)

	for _, li := range items {
		run.RowSeen()

		// Quantity gate: missing, non-numeric or non-positive rows are
		// skipped silently, never counted as missing or as errors.
		if !li.QuantityPresent || li.Quantity <= 0 {
			continue
		}
		quantity := int(math.Trunc(li.Quantity))
		if quantity <= 0 {
			continue
		}

		effectiveID, ok := li.EffectiveID()
		if !ok {
			result.Errors = append(result.Errors, models.RowError{
				Row:     li.RowNumber,
				Message: fmt.Sprintf("invalid item identifier %q", li.ItemIDText),
			})
			continue
		}

		if !s.store.Exists(effectiveID) {
			result.MissingIdentifiers = append(result.MissingIdentifiers, effectiveID)
			continue
		}

		data, cached := fileCache[effectiveID]
		if !cached {
			var err error
			data, err = s.store.Read(effectiveID)
			if err == nil {
				// Validate the file once so a corrupt label surfaces as a
				// row error instead of failing the whole merge later.
				_, err = s.merger.PageCount(bytes.NewReader(data))
			}
			if err != nil {
				result.Errors = append(result.Errors, models.RowError{
					Row:     li.RowNumber,
					Message: fmt.Sprintf("label %d: %v", effectiveID, err),
				})
				continue
			}
			fileCache[effectiveID] = data
		}

		for i := 0; i < quantity; i++ {
			parts = append(parts, bytes.NewReader(data))
		}
		result.TotalPages += quantity
		result.ProcessedCount++
		result.Manifest = append(result.Manifest, models.ManifestEntry{
			DisplayName: li.DisplayName,
			EffectiveID: effectiveID,
			Quantity:    quantity,
		})
	}

	var document []byte
	if len(parts) > 0 {
		var buf bytes.Buffer
		if err := s.merger.Merge(parts, &buf); err != nil {
			run.Fail()
			return fmt.Errorf("failed to merge label documents: %w", err)
		}
		document = buf.Bytes()
	}

	run.Complete(result, document)

	s.logger.WithFields(logrus.Fields{
		"runId":     run.ID,
		"fileName":  run.FileName,
		"processed": result.ProcessedCount,
		"pages":     result.TotalPages,
		"missing":   len(result.MissingIdentifiers),
		"errors":    len(result.Errors),
	}).Info("Assembly run completed")

	if err := s.audit.RecordAssemblyRun(&models.AssemblyRunRecord{
		RunID:          run.ID,
		FileName:       run.FileName,
		ProcessedCount: result.ProcessedCount,
		TotalPages:     result.TotalPages,
		MissingCount:   len(result.MissingIdentifiers),
		ErrorCount:     len(result.Errors),
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to record assembly run audit entry")
	}

	return nil
}

// StoreReport exposes the advisory label-store scan.
func (s *AssemblyService) StoreReport() *models.LabelStoreReport {
	return s.store.Report()
}
