package engine

import "testing"

func TestArtifactExt(t *testing.T) {
	tests := []struct {
		engine string
		want   string
	}{
		{"pdflatex", ".pdf"},
		{"lualatex", ".pdf"},
		{"xelatex", ".pdf"},
		{"latex", ".dvi"},
		{"tex", ".dvi"},
		{"/usr/local/texlive/bin/pdflatex", ".pdf"},
	}
	for _, tt := range tests {
		got, err := ArtifactExt(tt.engine)
		if err != nil {
			t.Errorf("ArtifactExt(%q) error = %v", tt.engine, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ArtifactExt(%q) = %q, want %q", tt.engine, got, tt.want)
		}
	}
}

func TestArtifactExt_Unrecognized(t *testing.T) {
	if _, err := ArtifactExt("troff"); err == nil {
		t.Error("expected error for unrecognized engine")
	}
}

func TestKnown(t *testing.T) {
	if !Known("pdflatex") {
		t.Error("Known(pdflatex) = false, want true")
	}
	if !Known("/opt/tex/xelatex") {
		t.Error("Known with path = false, want true")
	}
	if Known("groff") {
		t.Error("Known(groff) = true, want false")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(artifactExts) {
		t.Errorf("len(Names()) = %d, want %d", len(names), len(artifactExts))
	}
	for _, name := range names {
		if !Known(name) {
			t.Errorf("Names() contains unknown engine %q", name)
		}
	}
}
