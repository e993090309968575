package fileutil

import "testing"

func TestMatchSuffix(t *testing.T) {
	suffixes := []string{".xaml", ".xaml.cs", ".cs", ".html", ".cshtml", ".json"}

	tests := []struct {
		name      string
		file      string
		wantExt   string
		wantMatch bool
	}{
		{"simple suffix", "Program.cs", ".cs", true},
		{"compound suffix wins over simple", "MainPage.xaml.cs", ".xaml.cs", true},
		{"compound prefix alone", "MainPage.xaml", ".xaml", true},
		{"cshtml is not cs", "Index.cshtml", ".cshtml", true},
		{"unlisted extension", "notes.txt", "", false},
		{"case-sensitive", "Program.CS", "", false},
		{"name is only the suffix", ".cs", "", false},
		{"multiple dots simple", "app.settings.json", ".json", true},
		{"no extension", "Makefile", "", false},
		{"suffix in the middle", "data.json.bak", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, ok := MatchSuffix(tt.file, suffixes)
			if ok != tt.wantMatch || ext != tt.wantExt {
				t.Errorf("MatchSuffix(%q) = (%q, %v), want (%q, %v)", tt.file, ext, ok, tt.wantExt, tt.wantMatch)
			}
		})
	}
}

func TestMatchSuffixIgnoresEmptyEntries(t *testing.T) {
	if _, ok := MatchSuffix("file", []string{""}); ok {
		t.Error("empty suffix should never match")
	}
}

func TestSplitSuffix(t *testing.T) {
	if got := SplitSuffix("MainPage.xaml.cs", ".xaml.cs"); got != "MainPage" {
		t.Errorf("SplitSuffix() = %q, want %q", got, "MainPage")
	}
	if got := SplitSuffix("MainPage.xaml.cs", ".cs"); got != "MainPage.xaml" {
		t.Errorf("SplitSuffix() = %q, want %q", got, "MainPage.xaml")
	}
	if got := SplitSuffix("readme", ".cs"); got != "readme" {
		t.Errorf("SplitSuffix() = %q, want %q", got, "readme")
	}
}
