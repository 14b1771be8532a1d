package app

import "testing"

func TestResultPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"invoice.pdf", "invoice_results.md"},
		{"/tmp/docs/invoice.pdf", "/tmp/docs/invoice_results.md"},
		{"no-extension", "no-extension_results.md"},
	}

	for _, tt := range tests {
		if got := resultPath(tt.in); got != tt.want {
			t.Errorf("resultPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
