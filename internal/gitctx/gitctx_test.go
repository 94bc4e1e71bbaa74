package gitctx

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDiff = `diff --git a/app.py b/app.py
index 1234567..89abcde 100644
--- a/app.py
+++ b/app.py
@@ -1,3 +1,4 @@
+import os
 def main():
     pass
diff --git a/pkg/util.py b/pkg/util.py
--- a/pkg/util.py
+++ b/pkg/util.py
@@ -1 +1,2 @@
+X = 1
diff --git a/app.py b/app.py
--- a/app.py
+++ b/app.py
`

func TestFromDiffFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "change.diff")
	if err := os.WriteFile(path, []byte(sampleDiff), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := FromDiffFile(path)
	if err != nil {
		t.Fatalf("FromDiffFile: %v", err)
	}
	if in.Diff != sampleDiff {
		t.Error("diff content altered")
	}
	if in.Mode != "diff" {
		t.Errorf("Mode = %q, want diff", in.Mode)
	}
}

func TestFromDiffFile_Missing(t *testing.T) {
	if _, err := FromDiffFile(filepath.Join(t.TempDir(), "nope.diff")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestChangedPaths(t *testing.T) {
	paths := ChangedPaths(sampleDiff)
	want := []string{"app.py", "pkg/util.py"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestChangedPaths_EmptyDiff(t *testing.T) {
	if paths := ChangedPaths(""); len(paths) != 0 {
		t.Errorf("paths = %v, want none", paths)
	}
}
