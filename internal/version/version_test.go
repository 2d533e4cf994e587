package version

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"2.0.0", Version{2, 0, 0}, false},
		{"0.6.0", Version{0, 6, 0}, false},
		{"1.0", Version{}, true},
		{"1.0.0.0", Version{}, true},
		{"a.0.0", Version{}, true},
		{"-1.0.0", Version{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) error = %v, want nil", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	if !(Version{1, 9, 9}).Less(Version{2, 0, 0}) {
		t.Fatalf("1.9.9 should be less than 2.0.0")
	}
	if !(Version{2, 0, 0}).Equal(Version{2, 0, 0}) {
		t.Fatalf("2.0.0 should equal 2.0.0")
	}
	if (Version{2, 0, 1}).Less(Version{2, 0, 0}) {
		t.Fatalf("2.0.1 should not be less than 2.0.0")
	}
}

func TestString(t *testing.T) {
	if got := (Version{2, 0, 0}).String(); got != "2.0.0" {
		t.Fatalf("String() = %q, want %q", got, "2.0.0")
	}
}
