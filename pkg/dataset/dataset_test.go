package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestVoxCeleb1Layout(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10001", "sess1", "00002.wav"))
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10001", "sess1", "00001.wav"))
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10002", "sess9", "00001.wav"))
	// Wrong extension must be ignored.
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10001", "sess1", "notes.txt"))

	l, err := New(VoxCeleb1, root)
	if err != nil {
		t.Fatal(err)
	}
	files, err := l.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("speakers = %d, want 2", len(files))
	}
	want := []string{
		filepath.Join(root, "VoxCeleb1", "wav", "id10001", "sess1", "00001.wav"),
		filepath.Join(root, "VoxCeleb1", "wav", "id10001", "sess1", "00002.wav"),
	}
	if !reflect.DeepEqual(files["id10001"], want) {
		t.Errorf("id10001 files = %v, want sorted %v", files["id10001"], want)
	}
}

func TestVoxCeleb2UsesM4A(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "VoxCeleb2", "aac", "id20001", "s", "a.m4a"))
	touch(t, filepath.Join(root, "VoxCeleb2", "aac", "id20001", "s", "a.wav"))

	l, _ := New(VoxCeleb2, root)
	files, err := l.Files()
	if err != nil {
		t.Fatal(err)
	}
	if n := len(files["id20001"]); n != 1 {
		t.Errorf("id20001 files = %d, want 1 (only .m4a)", n)
	}
}

func TestLibriSpeechMergesSubsets(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "LibriSpeech", "LibriSpeech")
	touch(t, filepath.Join(base, "dev-clean", "84", "121123", "84-121123-0000.flac"))
	touch(t, filepath.Join(base, "test-clean", "84", "999", "84-999-0000.flac"))
	touch(t, filepath.Join(base, "dev-clean", "174", "50561", "174-50561-0000.flac"))

	l, _ := New(LibriSpeech, root)
	files, err := l.Files()
	if err != nil {
		t.Fatal(err)
	}
	if n := len(files["84"]); n != 2 {
		t.Errorf("speaker 84 files = %d, want 2 across subsets", n)
	}
	if n := len(files["174"]); n != 1 {
		t.Errorf("speaker 174 files = %d, want 1", n)
	}
}

func TestMissingRootIsEmpty(t *testing.T) {
	l, _ := New(VoxCeleb1, t.TempDir())
	files, err := l.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want empty map for missing corpus", files)
	}
}

func TestSpeakersMinFilter(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10001", "s", "1.wav"))
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10001", "s", "2.wav"))
	touch(t, filepath.Join(root, "VoxCeleb1", "wav", "id10002", "s", "1.wav"))

	l, _ := New(VoxCeleb1, root)
	ids, err := l.Speakers(2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []string{"id10001"}) {
		t.Errorf("ids = %v, want [id10001]", ids)
	}
}

func TestParseName(t *testing.T) {
	for _, s := range []string{"VoxCeleb1", "VoxCeleb2", "LibriSpeech"} {
		if _, err := ParseName(s); err != nil {
			t.Errorf("ParseName(%q): %v", s, err)
		}
	}
	if _, err := ParseName("CommonVoice"); err == nil {
		t.Error("unknown dataset must error")
	}
}
