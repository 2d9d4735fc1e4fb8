package pathseg

import (
	"strings"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		gitRoot string
		want    Segments
	}{
		{"nested file", "/repo/src/Foo.ts", "/repo", Segments{"src", "Foo", ".ts"}},
		{"root matched case-insensitively", "/Users/Me/Repo/src/Foo.ts", "/users/me/repo", Segments{"src", "Foo", ".ts"}},
		{"file at root", "/repo/README.md", "/repo", Segments{"", "README", ".md"}},
		{"multiple dots", "/repo/lib/archive.tar.gz", "/repo", Segments{"lib", "archive.tar", ".gz"}},
		{"no extension", "/repo/Makefile", "/repo", Segments{"", "Makefile", ""}},
		{"dotfile", "/repo/conf/.bashrc", "/repo", Segments{"conf", ".bashrc", ""}},
		{"dotfile with extension", "/repo/.golangci.yml", "/repo", Segments{"", ".golangci", ".yml"}},
		{"single character", "/repo/a", "/repo", Segments{"", "a", ""}},
		{"drive path", "c:/Work/Repo/Docs/Notes.TXT", "C:/work/repo", Segments{"Docs", "Notes", ".TXT"}},
		{"slash-stripped host path", "repo/src/Foo.ts", "/repo", Segments{"src", "Foo", ".ts"}},
		{"root trailing slash", "/repo/src/Foo.ts", "/repo/", Segments{"src", "Foo", ".ts"}},
		{"sibling with shared prefix", "/repository/x.go", "/repo", Segments{"repository", "x", ".go"}},
		{"empty path", "", "/repo", Segments{}},
		{"path equals root", "/repo", "/repo", Segments{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.path, tt.gitRoot)
			if got != tt.want {
				t.Errorf("Segment(%q, %q) = %+v, want %+v", tt.path, tt.gitRoot, got, tt.want)
			}
		})
	}
}

func TestSegment_ReconstructsRelativePath(t *testing.T) {
	paths := []string{
		"/repo/src/Foo.ts",
		"/REPO/src/deep/er/x.y.z",
		"/repo/.env",
		"/repo/a",
		"/repo/dir.with.dots/file",
		"/repo/trailing.",
	}

	for _, p := range paths {
		s := Segment(p, "/repo")
		joined := strings.TrimPrefix(s.Directory+"/"+s.FileName+s.Extension, "/")
		if !strings.EqualFold(joined, Relative(p, "/repo")) {
			t.Errorf("Segment(%q) rebuilt %q, want %q", p, joined, Relative(p, "/repo"))
		}
		if !strings.EqualFold(s.RelPath(), Relative(p, "/repo")) {
			t.Errorf("RelPath() for %q = %q", p, s.RelPath())
		}
	}
}

func TestSegments_Sibling(t *testing.T) {
	s := Segments{Directory: "src", FileName: "Foo", Extension: ".ts"}
	if got := s.Sibling("tmp123"); got != "src/tmp123.ts" {
		t.Errorf("Sibling() = %q, want %q", got, "src/tmp123.ts")
	}

	root := Segments{FileName: "Foo", Extension: ".ts"}
	if got := root.Sibling("tmp123"); got != "tmp123.ts" {
		t.Errorf("Sibling() at root = %q, want %q", got, "tmp123.ts")
	}
}

func TestNormalizeHostPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/c:/Users/me/Foo.txt", "c:/Users/me/Foo.txt"},
		{"/D:/x", "D:/x"},
		{`C:\work\Foo.txt`, "C:/work/Foo.txt"},
		{"/home/me/Foo.txt", "/home/me/Foo.txt"},
		{"relative/Foo.txt", "relative/Foo.txt"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHostPath(tt.in); got != tt.want {
			t.Errorf("NormalizeHostPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
