package mapping

import (
	"path/filepath"
	"testing"
)

func TestWriteFile_ReadsBack(t *testing.T) {
	for _, name := range []string{"mapping.yaml", "mapping.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			if err := WriteFile(path, Example()); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			want := Example()
			if len(got) != len(want) {
				t.Fatalf("ReadFile() returned %d mappings, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i].ID != want[i].ID || len(got[i].MAC) != len(want[i].MAC) {
					t.Errorf("mapping %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestWriteFile_RejectsUnknownExtension(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "mapping.txt"), Example())
	if err == nil {
		t.Fatal("WriteFile() error = nil, want format error")
	}
	le, ok := err.(*LoadError)
	if !ok || le.Kind != ErrKindFormat {
		t.Errorf("WriteFile() error = %v, want format LoadError", err)
	}
}

func TestExample_LintsClean(t *testing.T) {
	if issues := Lint(Example()); len(issues) != 0 {
		t.Errorf("Lint(Example()) = %v, want no issues", issues)
	}
}
