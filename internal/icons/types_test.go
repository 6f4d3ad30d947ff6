package icons

import "testing"

func TestPrefixBijection(t *testing.T) {
	seen := make(map[string]Type)
	for _, typ := range All {
		prefix := typ.Prefix()
		if prefix == "" {
			t.Errorf("type %s has no prefix", typ)
			continue
		}
		if other, ok := seen[prefix]; ok {
			t.Errorf("prefix %q shared by %s and %s", prefix, other, typ)
		}
		seen[prefix] = typ
	}
	if len(seen) != len(All) {
		t.Errorf("expected %d distinct prefixes, got %d", len(All), len(seen))
	}
}

func TestTypeByPrefix(t *testing.T) {
	for _, typ := range All {
		got, ok := TypeByPrefix(typ.Prefix())
		if !ok {
			t.Errorf("TypeByPrefix(%q) not found", typ.Prefix())
			continue
		}
		if got != typ {
			t.Errorf("TypeByPrefix(%q) = %s, want %s", typ.Prefix(), got, typ)
		}
	}

	if _, ok := TypeByPrefix("nope"); ok {
		t.Error("TypeByPrefix(\"nope\") should not resolve")
	}
}

func TestValid(t *testing.T) {
	if !TypeLanguage.Valid() {
		t.Error("TypeLanguage should be valid")
	}
	if Type("bogus").Valid() {
		t.Error("unknown type should not be valid")
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".png", true},
		{".jpg", true},
		{".jpeg", true},
		{".webp", true},
		{".bmp", true},
		{".gif", true},
		{".svg", false},
		{".txt", false},
		{"png", false},
	}
	for _, tt := range tests {
		if got := SupportedExtension(tt.ext); got != tt.want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
