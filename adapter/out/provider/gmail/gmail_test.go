package gmail

import (
	"reflect"
	"testing"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantName string
		wantAddr string
	}{
		{"name and address", `Dana Kim <dana@acme.com>`, "Dana Kim", "dana@acme.com"},
		{"quoted name", `"Kim, Dana" <dana@acme.com>`, "Kim, Dana", "dana@acme.com"},
		{"bare address", `dana@acme.com`, "", "dana@acme.com"},
		{"extra whitespace", `  Dana <dana@acme.com> `, "Dana", "dana@acme.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotAddr := parseAddress(tt.value)
			if gotName != tt.wantName || gotAddr != tt.wantAddr {
				t.Errorf("parseAddress(%q) = %q, %q; want %q, %q",
					tt.value, gotName, gotAddr, tt.wantName, tt.wantAddr)
			}
		})
	}
}

func TestParseAddressList(t *testing.T) {
	got := parseAddressList(`A <a@x.com>, b@y.com, C <c@z.com>`)
	want := []string{"a@x.com", "b@y.com", "c@z.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseAddressList = %v, want %v", got, want)
	}
}
