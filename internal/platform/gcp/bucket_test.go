package gcp

import "testing"

func TestObjectKeyFromURLForBucket(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "public url",
			url:  "https://storage.googleapis.com/vistral-property-docs/PROP-001/legal/doc_purchase_contract.pdf",
			want: "PROP-001/legal/doc_purchase_contract.pdf",
		},
		{
			name: "signed url with query",
			url:  "https://storage.googleapis.com/vistral-property-docs/PROP-001/legal/a.pdf?X-Goog-Algorithm=GOOG4-RSA-SHA256&X-Goog-Signature=abc",
			want: "PROP-001/legal/a.pdf",
		},
		{
			name: "bucket-hosted domain",
			url:  "https://vistral-property-docs.storage.googleapis.com/PROP-001/legal/a.pdf",
			want: "PROP-001/legal/a.pdf",
		},
		{
			name:    "empty",
			url:     "   ",
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ObjectKeyFromURLForBucket("vistral-property-docs", tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got key %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
