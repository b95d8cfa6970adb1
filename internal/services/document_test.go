package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
)

type fakeDocPropertyRepo struct {
	repos.PropertyRepo

	prop            *rentals.Property
	updateFieldsErr error
	savedFields     map[string]any
}

func (f *fakeDocPropertyRepo) GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Property, error) {
	if f.prop == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.prop, nil
}

func (f *fakeDocPropertyRepo) UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error {
	if f.updateFieldsErr != nil {
		return f.updateFieldsErr
	}
	f.savedFields = fields
	return nil
}

type fakeSectionReview struct {
	calls []map[string]any
}

func (f *fakeSectionReview) ResetOnFieldChanges(ctx context.Context, propertyUniqueID string, changed map[string]any) bool {
	f.calls = append(f.calls, changed)
	return false
}

func docService(t *testing.T, repo *fakeDocPropertyRepo, leadRepo *fakeLeadRepo, bucket *fakeBucket, review *fakeSectionReview, notif *fakeNotifier) DocumentService {
	t.Helper()
	return NewDocumentService(nil, testLogger(t), bucket, repo, leadRepo, review, notif)
}

func TestUploadPropertyDocument_PersistsSignedURL(t *testing.T) {
	repo := &fakeDocPropertyRepo{prop: &rentals.Property{PropertyUniqueID: "PROP-001", CurrentStage: rentals.StageProphero}}
	bucket := newFakeBucket()
	review := &fakeSectionReview{}
	notif := &fakeNotifier{}
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, review, notif)

	url, err := svc.UploadPropertyDocument(context.Background(), "PROP-001", "doc_purchase_contract", "contract.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	key := "PROP-001/documents/doc_purchase_contract.pdf"
	if !bucket.objects[key] {
		t.Fatalf("object %q not stored", key)
	}
	if got := repo.savedFields["doc_purchase_contract"]; got != url {
		t.Fatalf("persisted %v, want signed url %q", got, url)
	}
	if !strings.Contains(url, key) {
		t.Fatalf("signed url %q does not reference key", url)
	}
	if len(notif.messages) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notif.messages))
	}
	if len(review.calls) != 1 {
		t.Fatalf("section review check ran %d times, want 1", len(review.calls))
	}
	if _, ok := review.calls[0]["doc_purchase_contract"]; !ok {
		t.Fatal("section review check missed the changed field")
	}
}

func TestUploadPropertyDocument_SignFailureRemovesObject(t *testing.T) {
	repo := &fakeDocPropertyRepo{prop: &rentals.Property{PropertyUniqueID: "PROP-001"}}
	bucket := newFakeBucket()
	bucket.signErr = fmt.Errorf("signer unavailable")
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.UploadPropertyDocument(context.Background(), "PROP-001", "doc_home_insurance", "policy.pdf", strings.NewReader("data"))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("orphaned objects left behind: %v", bucket.objects)
	}
	if repo.savedFields != nil {
		t.Fatalf("database written despite failed signing: %v", repo.savedFields)
	}
}

func TestUploadPropertyDocument_DBFailureRemovesObject(t *testing.T) {
	repo := &fakeDocPropertyRepo{
		prop:            &rentals.Property{PropertyUniqueID: "PROP-001"},
		updateFieldsErr: fmt.Errorf("connection reset"),
	}
	bucket := newFakeBucket()
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.UploadPropertyDocument(context.Background(), "PROP-001", "doc_iban_certificate", "iban.pdf", strings.NewReader("data"))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("orphaned objects left behind: %v", bucket.objects)
	}
}

func TestUploadPropertyDocument_ReplacesOldObjectWithDifferentExt(t *testing.T) {
	bucket := newFakeBucket()
	oldKey := "PROP-001/documents/doc_energy_certificate.png"
	bucket.objects[oldKey] = true
	repo := &fakeDocPropertyRepo{prop: &rentals.Property{
		PropertyUniqueID:     "PROP-001",
		DocEnergyCertificate: "https://storage.example.com/property-docs/" + oldKey + "?sig=old",
	}}
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.UploadPropertyDocument(context.Background(), "PROP-001", "doc_energy_certificate", "cert.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if bucket.objects[oldKey] {
		t.Fatal("replaced object still present")
	}
	if !bucket.objects["PROP-001/documents/doc_energy_certificate.pdf"] {
		t.Fatal("new object missing")
	}
}

func TestUploadPropertyDocument_RejectsUnknownField(t *testing.T) {
	svc := docService(t, &fakeDocPropertyRepo{}, &fakeLeadRepo{}, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})
	if _, err := svc.UploadPropertyDocument(context.Background(), "PROP-001", "current_stage", "x.pdf", strings.NewReader("data")); err == nil {
		t.Fatal("expected rejection of non-document field")
	}
}

func TestDeletePropertyDocument_ClearsPointerAndObject(t *testing.T) {
	bucket := newFakeBucket()
	key := "PROP-001/documents/doc_purchase_contract.pdf"
	bucket.objects[key] = true
	repo := &fakeDocPropertyRepo{prop: &rentals.Property{
		PropertyUniqueID:    "PROP-001",
		DocPurchaseContract: "https://storage.example.com/property-docs/" + key + "?sig=old",
	}}
	review := &fakeSectionReview{}
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, review, &fakeNotifier{})

	if err := svc.DeletePropertyDocument(context.Background(), "PROP-001", "doc_purchase_contract"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := repo.savedFields["doc_purchase_contract"]; got != "" {
		t.Fatalf("pointer not cleared, got %v", got)
	}
	if bucket.objects[key] {
		t.Fatal("object not removed")
	}
	if len(review.calls) != 1 {
		t.Fatalf("section review check ran %d times, want 1", len(review.calls))
	}
}

func TestDeletePropertyDocument_NoopWhenEmpty(t *testing.T) {
	repo := &fakeDocPropertyRepo{prop: &rentals.Property{PropertyUniqueID: "PROP-001"}}
	bucket := newFakeBucket()
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, &fakeSectionReview{}, &fakeNotifier{})

	if err := svc.DeletePropertyDocument(context.Background(), "PROP-001", "doc_purchase_contract"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.savedFields != nil {
		t.Fatal("unexpected database write for empty pointer")
	}
}

func TestUploadRenovationFile_AppendsURL(t *testing.T) {
	repo := &fakeDocPropertyRepo{prop: &rentals.Property{
		PropertyUniqueID:   "PROP-001",
		RenovationFileURLs: []byte(`["https://storage.example.com/property-docs/PROP-001/renovation/1.pdf"]`),
	}}
	bucket := newFakeBucket()
	review := &fakeSectionReview{}
	svc := docService(t, repo, &fakeLeadRepo{}, bucket, review, &fakeNotifier{})

	url, err := svc.UploadRenovationFile(context.Background(), "PROP-001", "invoice.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	raw, ok := repo.savedFields["renovation_file_urls"]
	if !ok {
		t.Fatal("renovation_file_urls not written")
	}
	encoded := fmt.Sprintf("%s", raw)
	if !strings.Contains(encoded, "renovation/1.pdf") || !strings.Contains(encoded, url) {
		t.Fatalf("saved array %q missing existing or new url", encoded)
	}
	if len(review.calls) != 1 {
		t.Fatalf("section review check ran %d times, want 1", len(review.calls))
	}
}

func TestUploadLeadObligatoryDoc_RejectsKeyOutsideRequiredSet(t *testing.T) {
	bucket := newFakeBucket()
	leadRepo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "id_document")}
	svc := docService(t, &fakeDocPropertyRepo{}, leadRepo, bucket, &fakeSectionReview{}, &fakeNotifier{})

	_, err := svc.UploadLeadObligatoryDoc(context.Background(), "LEAD-001", "quarterly_vat_return", "vat.pdf", strings.NewReader("data"))
	if err == nil {
		t.Fatal("expected rejection of key not required for this employment status")
	}
}

func TestUploadLeadObligatoryDoc_ReplacesAndPersists(t *testing.T) {
	bucket := newFakeBucket()
	leadRepo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "id_document", "last_payslip")}
	svc := docService(t, &fakeDocPropertyRepo{}, leadRepo, bucket, &fakeSectionReview{}, &fakeNotifier{})

	url, err := svc.UploadLeadObligatoryDoc(context.Background(), "LEAD-001", "last_payslip", "payslip.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	docs, err := rentals.ParseLaboralFinancialDocs(leadRepo.savedDocs)
	if err != nil {
		t.Fatalf("parse saved docs: %v", err)
	}
	if docs.Obligatory["last_payslip"] != url {
		t.Fatalf("obligatory map holds %q, want %q", docs.Obligatory["last_payslip"], url)
	}
	if docs.Obligatory["id_document"] == "" {
		t.Fatal("untouched obligatory entry lost")
	}
	if len(docs.Complementary) != 1 {
		t.Fatalf("complementary docs disturbed: %v", docs.Complementary)
	}
}

func TestUploadLeadComplementaryDoc_RequiresTitle(t *testing.T) {
	svc := docService(t, &fakeDocPropertyRepo{}, &fakeLeadRepo{}, newFakeBucket(), &fakeSectionReview{}, &fakeNotifier{})
	if _, err := svc.UploadLeadComplementaryDoc(context.Background(), "LEAD-001", "other", "", "x.pdf", strings.NewReader("data")); err == nil {
		t.Fatal("expected title to be required")
	}
}

func TestUploadLeadComplementaryDoc_Appends(t *testing.T) {
	bucket := newFakeBucket()
	leadRepo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "id_document")}
	svc := docService(t, &fakeDocPropertyRepo{}, leadRepo, bucket, &fakeSectionReview{}, &fakeNotifier{})

	url, err := svc.UploadLeadComplementaryDoc(context.Background(), "LEAD-001", "payroll", "Extra payslip", "extra.pdf", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	docs, err := rentals.ParseLaboralFinancialDocs(leadRepo.savedDocs)
	if err != nil {
		t.Fatalf("parse saved docs: %v", err)
	}
	if len(docs.Complementary) != 2 {
		t.Fatalf("got %d complementary docs, want 2", len(docs.Complementary))
	}
	added := docs.Complementary[1]
	if added.URL != url || added.Title != "Extra payslip" || added.Type != "payroll" {
		t.Fatalf("unexpected appended doc: %+v", added)
	}
}
