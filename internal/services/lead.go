package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/dbctx"
	"github.com/vistral/rentals-backend/internal/platform/gcp"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

// ObligatoryDocKeys returns the document checklist implied by a lead's
// employment situation. Keys double as storage field keys in the obligatory
// map.
func ObligatoryDocKeys(employmentStatus, contractType string) []string {
	switch employmentStatus {
	case rentals.EmploymentEmployed:
		keys := []string{"id_document", "last_payslip", "previous_payslip", "employment_contract"}
		if contractType == rentals.ContractTemporary {
			keys = append(keys, "contract_extension_proof")
		}
		return keys
	case rentals.EmploymentSelfEmployed:
		return []string{"id_document", "last_tax_return", "quarterly_vat_return", "social_security_receipt"}
	case rentals.EmploymentRetired:
		return []string{"id_document", "pension_certificate", "last_pension_receipt"}
	case rentals.EmploymentStudent:
		return []string{"id_document", "enrollment_certificate", "guarantor_id_document", "guarantor_payslip"}
	case rentals.EmploymentUnemployed:
		return []string{"id_document", "benefit_certificate", "bank_statement"}
	default:
		return []string{"id_document"}
	}
}

// immutableLeadColumns cannot be patched through Update; they are either
// identity or managed by the document flows.
var immutableLeadColumns = map[string]bool{
	"id":                     true,
	"leads_unique_id":        true,
	"laboral_financial_docs": true,
	"created_at":             true,
	"updated_at":             true,
	"deleted_at":             true,
}

type LeadService interface {
	Upsert(ctx context.Context, l *rentals.Lead) (*rentals.Lead, error)
	Get(ctx context.Context, uniqueID string) (*rentals.Lead, error)
	List(ctx context.Context, f repos.LeadFilter) ([]*rentals.Lead, error)
	Update(ctx context.Context, uniqueID string, fields map[string]any) (*rentals.Lead, error)
	Delete(ctx context.Context, uniqueID string) error
	Kanban(ctx context.Context) (map[string][]*rentals.Lead, error)
}

type leadService struct {
	db       *gorm.DB
	log      *logger.Logger
	leadRepo repos.LeadRepo
	bucket   gcp.BucketService
	notifier Notifier
}

func NewLeadService(
	db *gorm.DB,
	baseLog *logger.Logger,
	leadRepo repos.LeadRepo,
	bucket gcp.BucketService,
	notifier Notifier,
) LeadService {
	return &leadService{
		db:       db,
		log:      baseLog.With("service", "LeadService"),
		leadRepo: leadRepo,
		bucket:   bucket,
		notifier: notifier,
	}
}

func (s *leadService) Upsert(ctx context.Context, l *rentals.Lead) (*rentals.Lead, error) {
	if l.LeadsUniqueID == "" {
		return nil, invalidf("leads_unique_id is required")
	}
	if l.FullName == "" {
		return nil, invalidf("full_name is required")
	}
	if len(l.LaboralFinancialDocs) == 0 {
		empty, err := rentals.LaboralFinancialDocs{Obligatory: map[string]string{}}.Encode()
		if err != nil {
			return nil, err
		}
		l.LaboralFinancialDocs = empty
	}
	return s.leadRepo.Upsert(ctx, nil, l)
}

func (s *leadService) Get(ctx context.Context, uniqueID string) (*rentals.Lead, error) {
	return s.leadRepo.GetByUniqueID(ctx, nil, uniqueID)
}

func (s *leadService) List(ctx context.Context, f repos.LeadFilter) ([]*rentals.Lead, error) {
	return s.leadRepo.List(ctx, nil, f)
}

// Update applies the field changes. When the change touches employment_status
// or employment_contract_type, the lead's obligatory documents are invalidated
// first: the required-document set for the new status may differ, so stale
// uploads under old keys are deleted from storage and the map is emptied.
func (s *leadService) Update(ctx context.Context, uniqueID string, fields map[string]any) (*rentals.Lead, error) {
	lead, err := s.leadRepo.GetByUniqueID(ctx, nil, uniqueID)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	for k, v := range fields {
		if immutableLeadColumns[k] {
			continue
		}
		patch[k] = v
	}
	if len(patch) == 0 {
		return nil, invalidf("no updatable fields in request")
	}

	_, statusChanged := patch["employment_status"]
	_, contractChanged := patch["employment_contract_type"]
	if statusChanged || contractChanged {
		if err := s.clearObligatoryDocs(ctx, lead); err != nil {
			return nil, err
		}
	}

	if err := s.leadRepo.UpdateFields(ctx, nil, uniqueID, patch); err != nil {
		return nil, err
	}

	updated, err := s.leadRepo.GetByUniqueID(ctx, nil, uniqueID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.LeadChannel(uniqueID),
			Event:   sse.SSEEventLeadUpdated,
			Data:    updated,
		})
	}
	return updated, nil
}

// clearObligatoryDocs deletes every storage object referenced by the
// obligatory map and persists obligatory = {}. Object deletes are best-effort
// per file; an orphaned object is accepted, a dangling reference is not.
func (s *leadService) clearObligatoryDocs(ctx context.Context, lead *rentals.Lead) error {
	docs, err := rentals.ParseLaboralFinancialDocs(lead.LaboralFinancialDocs)
	if err != nil {
		s.log.Warn("unparsable laboral_financial_docs, resetting to empty",
			"error", err, "leads_unique_id", lead.LeadsUniqueID)
		docs = rentals.LaboralFinancialDocs{Obligatory: map[string]string{}}
	}

	for fieldKey, docURL := range docs.Obligatory {
		if docURL == "" {
			continue
		}
		key, err := s.bucket.ObjectKeyFromURL(gcp.BucketCategoryLeadDocs, docURL)
		if err != nil {
			s.log.Warn("cannot derive storage key for obligatory doc",
				"error", err, "leads_unique_id", lead.LeadsUniqueID, "field_key", fieldKey)
			continue
		}
		if err := s.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, gcp.BucketCategoryLeadDocs, key); err != nil {
			s.log.Warn("obligatory doc delete failed, continuing",
				"error", err, "leads_unique_id", lead.LeadsUniqueID, "field_key", fieldKey)
		}
	}

	docs.Obligatory = map[string]string{}
	encoded, err := docs.Encode()
	if err != nil {
		return fmt.Errorf("encode laboral_financial_docs: %w", err)
	}
	if err := s.leadRepo.UpdateLaboralFinancialDocs(ctx, nil, lead.LeadsUniqueID, encoded); err != nil {
		return fmt.Errorf("persist cleared obligatory docs: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.LeadChannel(lead.LeadsUniqueID),
			Event:   sse.SSEEventLeadDocsCleared,
			Data:    map[string]any{"leads_unique_id": lead.LeadsUniqueID},
		})
	}
	return nil
}

func (s *leadService) Delete(ctx context.Context, uniqueID string) error {
	_, err := s.leadRepo.GetByUniqueID(ctx, nil, uniqueID)
	if err != nil {
		return err
	}
	return s.leadRepo.DeleteByUniqueID(ctx, nil, uniqueID)
}

func (s *leadService) Kanban(ctx context.Context) (map[string][]*rentals.Lead, error) {
	leads, err := s.leadRepo.List(ctx, nil, repos.LeadFilter{})
	if err != nil {
		return nil, err
	}
	board := map[string][]*rentals.Lead{}
	for _, l := range leads {
		status := l.Status
		if status == "" {
			status = "new"
		}
		board[status] = append(board[status], l)
	}
	return board, nil
}

