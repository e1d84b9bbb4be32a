package clone

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/haivivi/voiceguard/pkg/voiceclone"
)

func TestAPIEngineCreateAndSynthesize(t *testing.T) {
	uploads := 0
	deleted := []string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/files/upload":
			uploads++
			json.NewEncoder(w).Encode(map[string]string{"file_id": "f-1"})
		case "/v1/voice/clone":
			var req struct {
				Name    string   `json:"name"`
				FileIDs []string `json:"file_ids"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.FileIDs) != 2 {
				t.Errorf("file ids = %v", req.FileIDs)
			}
			json.NewEncoder(w).Encode(map[string]string{"voice_id": "v-7", "name": req.Name})
		case "/v1/voice/synthesize":
			w.Write([]byte("RIFFsynth"))
		case "/v1/voice/delete":
			var req struct {
				VoiceID string `json:"voice_id"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			deleted = append(deleted, req.VoiceID)
			w.Write([]byte("{}"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	refs := make([]string, 2)
	for i := range refs {
		refs[i] = filepath.Join(dir, "ref"+string(rune('a'+i))+".wav")
		if err := os.WriteFile(refs[i], []byte("RIFFref"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	e := NewAPIEngine(voiceclone.NewClient(srv.URL, "k", voiceclone.WithRetry(0)))
	modelID, err := e.CreateModel(context.Background(), refs, "spk-1-clone")
	if err != nil {
		t.Fatalf("CreateModel: %v", err)
	}
	if modelID != "v-7" || uploads != 2 {
		t.Errorf("modelID=%q uploads=%d", modelID, uploads)
	}

	out := filepath.Join(dir, "attack", "a0.wav")
	got, err := e.Synthesize(context.Background(), "open the door", modelID, out)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if got != out {
		t.Errorf("path = %q, want %q", got, out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte("RIFFsynth")) {
		t.Errorf("synthesized audio = %q", data)
	}

	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 1 || deleted[0] != "v-7" {
		t.Errorf("deleted = %v, want [v-7]", deleted)
	}
}

func TestAPIEngineNoReferences(t *testing.T) {
	e := NewAPIEngine(voiceclone.NewClient("http://127.0.0.1:0", "k"))
	if _, err := e.CreateModel(context.Background(), nil, "x"); err == nil {
		t.Error("expected error with no references")
	}
}

func TestLocalEngineMissingBinary(t *testing.T) {
	if _, err := NewLocalEngine("", ""); err == nil {
		t.Error("expected error for unconfigured binary")
	}

	e, err := NewLocalEngine("/nonexistent/voiceconv", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ref := filepath.Join(t.TempDir(), "ref.wav")
	if err := os.WriteFile(ref, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.CreateModel(context.Background(), []string{ref}, "spk"); err == nil {
		t.Error("expected error from missing converter binary")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("api"); err != nil || k != KindAPI {
		t.Errorf("api: %v %v", k, err)
	}
	if k, err := ParseKind("local"); err != nil || k != KindLocal {
		t.Errorf("local: %v %v", k, err)
	}
	if _, err := ParseKind("cloud"); err == nil {
		t.Error("unknown kind must error")
	}
}
