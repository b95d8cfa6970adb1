package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	repos "github.com/vistral/rentals-backend/internal/data/repos/rentals"
	"github.com/vistral/rentals-backend/internal/domain/rentals"
	"github.com/vistral/rentals-backend/internal/platform/dbctx"
	"github.com/vistral/rentals-backend/internal/platform/gcp"
)

type fakeLeadRepo struct {
	repos.LeadRepo

	lead       *rentals.Lead
	savedDocs  datatypes.JSON
	savedFields map[string]any
}

func (f *fakeLeadRepo) GetByUniqueID(ctx context.Context, tx *gorm.DB, uniqueID string) (*rentals.Lead, error) {
	if f.lead == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.lead, nil
}

func (f *fakeLeadRepo) UpdateFields(ctx context.Context, tx *gorm.DB, uniqueID string, fields map[string]any) error {
	f.savedFields = fields
	return nil
}

func (f *fakeLeadRepo) UpdateLaboralFinancialDocs(ctx context.Context, tx *gorm.DB, uniqueID string, docs datatypes.JSON) error {
	f.savedDocs = docs
	if f.lead != nil {
		f.lead.LaboralFinancialDocs = docs
	}
	return nil
}

// fakeBucket tracks object keys as a set so tests can assert presence/absence
// after best-effort cleanup.
type fakeBucket struct {
	objects     map[string]bool
	deleteErrOn map[string]error
	uploadErr   error
	signErr     error
	signedCount int
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]bool{}, deleteErrOn: map[string]error{}}
}

func (f *fakeBucket) UploadFile(dbc dbctx.Context, category gcp.BucketCategory, key string, file io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = true
	return nil
}

func (f *fakeBucket) DeleteFile(dbc dbctx.Context, category gcp.BucketCategory, key string) error {
	if err, ok := f.deleteErrOn[key]; ok {
		return err
	}
	if !f.objects[key] {
		return fmt.Errorf("object %q does not exist", key)
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBucket) DownloadFile(ctx context.Context, category gcp.BucketCategory, key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeBucket) ListKeys(ctx context.Context, category gcp.BucketCategory, prefix string) ([]string, error) {
	var out []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeBucket) DeletePrefix(ctx context.Context, category gcp.BucketCategory, prefix string) error {
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			delete(f.objects, k)
		}
	}
	return nil
}

func (f *fakeBucket) SignedURL(category gcp.BucketCategory, key string) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signedCount++
	return "https://storage.example.com/" + string(category) + "/" + key + "?sig=abc", nil
}

func (f *fakeBucket) ObjectKeyFromURL(category gcp.BucketCategory, rawURL string) (string, error) {
	u := rawURL
	if i := strings.Index(u, "?"); i >= 0 {
		u = u[:i]
	}
	prefix := "https://storage.example.com/" + string(category) + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", fmt.Errorf("unexpected url %q", rawURL)
	}
	return strings.TrimPrefix(u, prefix), nil
}

func leadWithObligatoryDocs(t *testing.T, bucket *fakeBucket, keys ...string) *rentals.Lead {
	t.Helper()
	oblig := map[string]string{}
	for _, k := range keys {
		storageKey := "LEAD-001/obligatory/" + k + ".pdf"
		bucket.objects[storageKey] = true
		oblig[k] = "https://storage.example.com/lead-docs/" + storageKey
	}
	docs := rentals.LaboralFinancialDocs{
		Obligatory: oblig,
		Complementary: []rentals.ComplementaryDoc{
			{Type: "other", Title: "bank ref", URL: "https://storage.example.com/lead-docs/LEAD-001/complementary/ref.pdf"},
		},
	}
	raw, err := docs.Encode()
	if err != nil {
		t.Fatalf("encode docs: %v", err)
	}
	return &rentals.Lead{
		LeadsUniqueID:        "LEAD-001",
		FullName:             "Ana Torres",
		EmploymentStatus:     rentals.EmploymentEmployed,
		LaboralFinancialDocs: raw,
	}
}

func TestLeadUpdate_SkipsImmutableColumns(t *testing.T) {
	bucket := newFakeBucket()
	repo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "last_payslip")}
	svc := NewLeadService(nil, testLogger(t), repo, bucket, &fakeNotifier{})

	_, err := svc.Update(context.Background(), "LEAD-001", map[string]any{
		"full_name":              "Ana T.",
		"leads_unique_id":        "LEAD-HACKED",
		"laboral_financial_docs": "{}",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := repo.savedFields["leads_unique_id"]; ok {
		t.Fatal("identity column leaked into the patch")
	}
	if _, ok := repo.savedFields["laboral_financial_docs"]; ok {
		t.Fatal("docs column must only change through the document flows")
	}
	if repo.savedFields["full_name"] != "Ana T." {
		t.Fatalf("full_name not patched: %v", repo.savedFields)
	}
	if repo.savedDocs != nil {
		t.Fatal("obligatory docs must survive an unrelated update")
	}
}

func TestLeadUpdate_OnlyImmutableFieldsFails(t *testing.T) {
	bucket := newFakeBucket()
	repo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "last_payslip")}
	svc := NewLeadService(nil, testLogger(t), repo, bucket, &fakeNotifier{})

	_, err := svc.Update(context.Background(), "LEAD-001", map[string]any{"id": "x"})
	if !IsInvalidInput(err) {
		t.Fatalf("want invalid-input error, got %v", err)
	}
	if repo.savedFields != nil {
		t.Fatal("no write should happen for an empty patch")
	}
}

func TestLeadUpdate_EmploymentChangeClearsObligatoryDocs(t *testing.T) {
	bucket := newFakeBucket()
	repo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "last_payslip", "employment_contract")}
	svc := NewLeadService(nil, testLogger(t), repo, bucket, &fakeNotifier{})

	_, err := svc.Update(context.Background(), "LEAD-001", map[string]any{
		"employment_status": rentals.EmploymentSelfEmployed,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	docs, err := rentals.ParseLaboralFinancialDocs(repo.savedDocs)
	if err != nil {
		t.Fatalf("parse saved docs: %v", err)
	}
	if len(docs.Obligatory) != 0 {
		t.Fatalf("obligatory not cleared: %v", docs.Obligatory)
	}
	if len(docs.Complementary) != 1 {
		t.Fatal("complementary docs must survive the reset")
	}
	for key := range bucket.objects {
		if strings.Contains(key, "/obligatory/") {
			t.Fatalf("obligatory object %q not deleted", key)
		}
	}
	if repo.savedFields["employment_status"] != rentals.EmploymentSelfEmployed {
		t.Fatal("field update must still be applied")
	}
}

func TestLeadUpdate_ContractTypeChangeAlsoClears(t *testing.T) {
	bucket := newFakeBucket()
	repo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "last_payslip")}
	svc := NewLeadService(nil, testLogger(t), repo, bucket, &fakeNotifier{})

	if _, err := svc.Update(context.Background(), "LEAD-001", map[string]any{
		"employment_contract_type": rentals.ContractTemporary,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.savedDocs == nil {
		t.Fatal("obligatory docs must be cleared on contract type change")
	}
}

func TestLeadUpdate_OtherFieldsLeaveDocsAlone(t *testing.T) {
	bucket := newFakeBucket()
	repo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "last_payslip")}
	svc := NewLeadService(nil, testLogger(t), repo, bucket, &fakeNotifier{})

	if _, err := svc.Update(context.Background(), "LEAD-001", map[string]any{"budget": 1200.0}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.savedDocs != nil {
		t.Fatal("non-employment update must not touch docs")
	}
	if !bucket.objects["LEAD-001/obligatory/last_payslip.pdf"] {
		t.Fatal("objects must survive non-employment updates")
	}
}

func TestLeadUpdate_StorageDeleteFailureIsSwallowed(t *testing.T) {
	bucket := newFakeBucket()
	repo := &fakeLeadRepo{lead: leadWithObligatoryDocs(t, bucket, "last_payslip", "id_document")}
	bucket.deleteErrOn["LEAD-001/obligatory/last_payslip.pdf"] = fmt.Errorf("storage unavailable")
	svc := NewLeadService(nil, testLogger(t), repo, bucket, &fakeNotifier{})

	if _, err := svc.Update(context.Background(), "LEAD-001", map[string]any{
		"employment_status": rentals.EmploymentRetired,
	}); err != nil {
		t.Fatalf("per-file storage failures must not fail the update: %v", err)
	}

	docs, err := rentals.ParseLaboralFinancialDocs(repo.savedDocs)
	if err != nil {
		t.Fatalf("parse saved docs: %v", err)
	}
	if len(docs.Obligatory) != 0 {
		t.Fatal("map reset must proceed despite storage failures")
	}
	// The failed delete leaves an orphan; the other object is gone.
	if !bucket.objects["LEAD-001/obligatory/last_payslip.pdf"] {
		t.Fatal("orphaned object expected for the failed delete")
	}
	if bucket.objects["LEAD-001/obligatory/id_document.pdf"] {
		t.Fatal("second object should have been deleted")
	}
}

func TestObligatoryDocKeys(t *testing.T) {
	permanent := ObligatoryDocKeys(rentals.EmploymentEmployed, rentals.ContractPermanent)
	temporary := ObligatoryDocKeys(rentals.EmploymentEmployed, rentals.ContractTemporary)
	if len(temporary) != len(permanent)+1 {
		t.Fatalf("temporary contract must require one extra doc: %v vs %v", temporary, permanent)
	}
	if got := ObligatoryDocKeys("unknown", ""); len(got) != 1 || got[0] != "id_document" {
		t.Fatalf("unknown status defaults to id only: %v", got)
	}
}
