package metrics

import "testing"

func TestFriendlyErrorName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Unknown error"},
		{"*net.OpError", "Network error"},
		{"*url.Error", "Request URL error"},
		{"x509.UnknownAuthorityError", "TLS certificate rejected"},
		{"context.deadlineExceededError", "Context deadline exceeded"},
		{"*tls.RecordHeaderError", "Record Header Error (tls)"},
		{"*main.customError", "Custom Error"},
	}
	for _, tt := range tests {
		if got := FriendlyErrorName(tt.in); got != tt.want {
			t.Errorf("FriendlyErrorName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlattenStatusBuckets(t *testing.T) {
	rows := FlattenStatusBuckets(map[int]int{500: 2, 200: 9, 404: 2})
	want := []int{200, 404, 500}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, code := range want {
		if rows[i].Code != code {
			t.Errorf("rows[%d].Code = %d, want %d", i, rows[i].Code, code)
		}
	}
	if rows[0].Text != "OK" {
		t.Errorf("rows[0].Text = %q, want OK", rows[0].Text)
	}
	if FlattenStatusBuckets(nil) != nil {
		t.Errorf("FlattenStatusBuckets(nil) != nil")
	}
}
