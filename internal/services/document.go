package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/dbctx"
	"github.com/vistral/rentals-backend/internal/platform/gcp"
	"github.com/vistral/rentals-backend/internal/platform/logger"
	"github.com/vistral/rentals-backend/internal/sse"
)

// propertyDocColumns whitelists the per-document property columns a client may
// target with an upload.
var propertyDocColumns = map[string]bool{
	"doc_energy_certificate":     true,
	"doc_purchase_contract":      true,
	"doc_land_registry_note":     true,
	"doc_iban_certificate":       true,
	"doc_utility_contract_power": true,
	"doc_utility_contract_water": true,
	"doc_utility_bill_power":     true,
	"doc_utility_bill_water":     true,
	"doc_home_insurance":         true,
}

type DocumentService interface {
	UploadPropertyDocument(ctx context.Context, propertyUniqueID, fieldKey, filename string, file io.Reader) (string, error)
	DeletePropertyDocument(ctx context.Context, propertyUniqueID, fieldKey string) error
	UploadRenovationFile(ctx context.Context, propertyUniqueID, filename string, file io.Reader) (string, error)
	UploadLeadObligatoryDoc(ctx context.Context, leadUniqueID, fieldKey, filename string, file io.Reader) (string, error)
	UploadLeadComplementaryDoc(ctx context.Context, leadUniqueID, docType, docTitle, filename string, file io.Reader) (string, error)
}

type documentService struct {
	db            *gorm.DB
	log           *logger.Logger
	bucket        gcp.BucketService
	propertyRepo  repos.PropertyRepo
	leadRepo      repos.LeadRepo
	sectionReview SectionReviewService
	notifier      Notifier
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bucket gcp.BucketService,
	propertyRepo repos.PropertyRepo,
	leadRepo repos.LeadRepo,
	sectionReview SectionReviewService,
	notifier Notifier,
) DocumentService {
	return &documentService{
		db:            db,
		log:           baseLog.With("service", "DocumentService"),
		bucket:        bucket,
		propertyRepo:  propertyRepo,
		leadRepo:      leadRepo,
		sectionReview: sectionReview,
		notifier:      notifier,
	}
}

func fileExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return ext
}

// uploadAndSign is the shared first half of every upload: put the object, then
// obtain its signed URL. If signing fails the fresh object is removed so
// nothing is orphaned.
func (s *documentService) uploadAndSign(ctx context.Context, category gcp.BucketCategory, key string, file io.Reader) (string, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.bucket.UploadFile(dbc, category, key, file); err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	signedURL, err := s.bucket.SignedURL(category, key)
	if err != nil {
		if delErr := s.bucket.DeleteFile(dbc, category, key); delErr != nil {
			s.log.Warn("cleanup after failed signing also failed", "error", delErr, "key", key)
		}
		return "", fmt.Errorf("sign %q: %w", key, err)
	}
	return signedURL, nil
}

// cleanupUpload removes the just-uploaded object after a failed database
// write, so upload stays transactional from the caller's point of view.
func (s *documentService) cleanupUpload(ctx context.Context, category gcp.BucketCategory, key string) {
	if err := s.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, category, key); err != nil {
		s.log.Warn("cleanup of uploaded object failed", "error", err, "key", key)
	}
}

// deleteReplaced removes the previous object only after the new pointer is
// durably saved. Failures are logged and swallowed.
func (s *documentService) deleteReplaced(ctx context.Context, category gcp.BucketCategory, oldURL, newKey string) {
	if oldURL == "" {
		return
	}
	oldKey, err := s.bucket.ObjectKeyFromURL(category, oldURL)
	if err != nil {
		s.log.Warn("cannot derive key of replaced object", "error", err, "url", oldURL)
		return
	}
	if oldKey == newKey {
		// Deterministic keys overwrite in place.
		return
	}
	if err := s.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, category, oldKey); err != nil {
		s.log.Warn("replaced object delete failed", "error", err, "key", oldKey)
	}
}

func (s *documentService) UploadPropertyDocument(ctx context.Context, propertyUniqueID, fieldKey, filename string, file io.Reader) (string, error) {
	if !propertyDocColumns[fieldKey] {
		return "", invalidf("unknown document field %q", fieldKey)
	}
	prop, err := s.propertyRepo.GetByUniqueID(ctx, nil, propertyUniqueID)
	if err != nil {
		return "", err
	}
	oldURL := propertyDocURL(prop, fieldKey)

	key := fmt.Sprintf("%s/documents/%s%s", propertyUniqueID, fieldKey, fileExt(filename))
	signedURL, err := s.uploadAndSign(ctx, gcp.BucketCategoryPropertyDocs, key, file)
	if err != nil {
		return "", err
	}

	if err := s.propertyRepo.UpdateFields(ctx, nil, propertyUniqueID, map[string]any{fieldKey: signedURL}); err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryPropertyDocs, key)
		return "", fmt.Errorf("persist document url: %w", err)
	}

	s.deleteReplaced(ctx, gcp.BucketCategoryPropertyDocs, oldURL, key)

	if s.notifier != nil {
		s.notifier.Notify(ctx, sse.SSEMessage{
			Channel: sse.PropertyChannel(propertyUniqueID),
			Event:   sse.SSEEventPropertyDocumentUploaded,
			Data: map[string]any{
				"property_unique_id": propertyUniqueID,
				"field_key":          fieldKey,
				"url":                signedURL,
			},
		})
	}
	if s.sectionReview != nil {
		s.sectionReview.ResetOnFieldChanges(ctx, propertyUniqueID, map[string]any{fieldKey: signedURL})
	}
	return signedURL, nil
}

func (s *documentService) DeletePropertyDocument(ctx context.Context, propertyUniqueID, fieldKey string) error {
	if !propertyDocColumns[fieldKey] {
		return invalidf("unknown document field %q", fieldKey)
	}
	prop, err := s.propertyRepo.GetByUniqueID(ctx, nil, propertyUniqueID)
	if err != nil {
		return err
	}
	oldURL := propertyDocURL(prop, fieldKey)
	if oldURL == "" {
		return nil
	}

	// Pointer gone first; a dangling reference is worse than an orphan.
	if err := s.propertyRepo.UpdateFields(ctx, nil, propertyUniqueID, map[string]any{fieldKey: ""}); err != nil {
		return fmt.Errorf("clear document url: %w", err)
	}
	s.deleteReplaced(ctx, gcp.BucketCategoryPropertyDocs, oldURL, "")

	if s.sectionReview != nil {
		s.sectionReview.ResetOnFieldChanges(ctx, propertyUniqueID, map[string]any{fieldKey: nil})
	}
	return nil
}

func (s *documentService) UploadRenovationFile(ctx context.Context, propertyUniqueID, filename string, file io.Reader) (string, error) {
	prop, err := s.propertyRepo.GetByUniqueID(ctx, nil, propertyUniqueID)
	if err != nil {
		return "", err
	}
	var urls []string
	if len(prop.RenovationFileURLs) > 0 {
		if err := json.Unmarshal(prop.RenovationFileURLs, &urls); err != nil {
			s.log.Warn("unparsable renovation_file_urls, starting fresh", "error", err, "property_unique_id", propertyUniqueID)
			urls = nil
		}
	}

	key := fmt.Sprintf("%s/renovation/%d%s", propertyUniqueID, time.Now().UnixNano(), fileExt(filename))
	signedURL, err := s.uploadAndSign(ctx, gcp.BucketCategoryPropertyDocs, key, file)
	if err != nil {
		return "", err
	}

	urls = append(urls, signedURL)
	raw, err := json.Marshal(urls)
	if err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryPropertyDocs, key)
		return "", err
	}
	if err := s.propertyRepo.UpdateFields(ctx, nil, propertyUniqueID, map[string]any{"renovation_file_urls": datatypes.JSON(raw)}); err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryPropertyDocs, key)
		return "", fmt.Errorf("persist renovation urls: %w", err)
	}

	if s.sectionReview != nil {
		s.sectionReview.ResetOnFieldChanges(ctx, propertyUniqueID, map[string]any{"renovation_file_urls": urls})
	}
	return signedURL, nil
}

func (s *documentService) UploadLeadObligatoryDoc(ctx context.Context, leadUniqueID, fieldKey, filename string, file io.Reader) (string, error) {
	lead, err := s.leadRepo.GetByUniqueID(ctx, nil, leadUniqueID)
	if err != nil {
		return "", err
	}
	required := ObligatoryDocKeys(lead.EmploymentStatus, lead.EmploymentContractType)
	if !containsString(required, fieldKey) {
		return "", invalidf("field %q is not an obligatory document for this lead", fieldKey)
	}

	docs, err := rentals.ParseLaboralFinancialDocs(lead.LaboralFinancialDocs)
	if err != nil {
		s.log.Warn("unparsable laboral_financial_docs, starting fresh", "error", err, "leads_unique_id", leadUniqueID)
		docs = rentals.LaboralFinancialDocs{Obligatory: map[string]string{}}
	}
	oldURL := docs.Obligatory[fieldKey]

	key := fmt.Sprintf("%s/obligatory/%s%s", leadUniqueID, fieldKey, fileExt(filename))
	signedURL, err := s.uploadAndSign(ctx, gcp.BucketCategoryLeadDocs, key, file)
	if err != nil {
		return "", err
	}

	docs.Obligatory[fieldKey] = signedURL
	encoded, err := docs.Encode()
	if err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryLeadDocs, key)
		return "", err
	}
	if err := s.leadRepo.UpdateLaboralFinancialDocs(ctx, nil, leadUniqueID, encoded); err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryLeadDocs, key)
		return "", fmt.Errorf("persist obligatory doc url: %w", err)
	}

	s.deleteReplaced(ctx, gcp.BucketCategoryLeadDocs, oldURL, key)
	return signedURL, nil
}

func (s *documentService) UploadLeadComplementaryDoc(ctx context.Context, leadUniqueID, docType, docTitle, filename string, file io.Reader) (string, error) {
	if docTitle == "" {
		return "", invalidf("docTitle is required")
	}
	lead, err := s.leadRepo.GetByUniqueID(ctx, nil, leadUniqueID)
	if err != nil {
		return "", err
	}
	docs, err := rentals.ParseLaboralFinancialDocs(lead.LaboralFinancialDocs)
	if err != nil {
		s.log.Warn("unparsable laboral_financial_docs, starting fresh", "error", err, "leads_unique_id", leadUniqueID)
		docs = rentals.LaboralFinancialDocs{Obligatory: map[string]string{}}
	}

	key := fmt.Sprintf("%s/complementary/%d%s", leadUniqueID, time.Now().UnixNano(), fileExt(filename))
	signedURL, err := s.uploadAndSign(ctx, gcp.BucketCategoryLeadDocs, key, file)
	if err != nil {
		return "", err
	}

	docs.Complementary = append(docs.Complementary, rentals.ComplementaryDoc{
		Type:      docType,
		Title:     docTitle,
		URL:       signedURL,
		CreatedAt: time.Now(),
	})
	encoded, err := docs.Encode()
	if err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryLeadDocs, key)
		return "", err
	}
	if err := s.leadRepo.UpdateLaboralFinancialDocs(ctx, nil, leadUniqueID, encoded); err != nil {
		s.cleanupUpload(ctx, gcp.BucketCategoryLeadDocs, key)
		return "", fmt.Errorf("persist complementary doc: %w", err)
	}
	return signedURL, nil
}

func propertyDocURL(p *rentals.Property, fieldKey string) string {
	switch fieldKey {
	case "doc_energy_certificate":
		return p.DocEnergyCertificate
	case "doc_purchase_contract":
		return p.DocPurchaseContract
	case "doc_land_registry_note":
		return p.DocLandRegistryNote
	case "doc_iban_certificate":
		return p.DocIBANCertificate
	case "doc_utility_contract_power":
		return p.DocUtilityContractPower
	case "doc_utility_contract_water":
		return p.DocUtilityContractWater
	case "doc_utility_bill_power":
		return p.DocUtilityBillPower
	case "doc_utility_bill_water":
		return p.DocUtilityBillWater
	case "doc_home_insurance":
		return p.DocHomeInsurance
	default:
		return ""
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
