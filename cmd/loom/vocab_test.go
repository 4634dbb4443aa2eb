package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loomlm/loom/internal/toy"
)

func TestResolveVocabPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(envVocabFile, "/env/vocab.txt")
		if got := resolveVocabPath("/flag/vocab.txt", "/cfg/vocab.txt"); got != "/flag/vocab.txt" {
			t.Fatalf("unexpected path: got %q", got)
		}
	})

	t.Run("env beats config", func(t *testing.T) {
		t.Setenv(envVocabFile, "/env/vocab.txt")
		if got := resolveVocabPath("", "/cfg/vocab.txt"); got != "/env/vocab.txt" {
			t.Fatalf("unexpected path: got %q", got)
		}
	})

	t.Run("config is the fallback", func(t *testing.T) {
		t.Setenv(envVocabFile, "")
		if got := resolveVocabPath("", "/cfg/vocab.txt"); got != "/cfg/vocab.txt" {
			t.Fatalf("unexpected path: got %q", got)
		}
	})

	t.Run("empty means built-in", func(t *testing.T) {
		t.Setenv(envVocabFile, "")
		if got := resolveVocabPath("", ""); got != "" {
			t.Fatalf("unexpected path: got %q", got)
		}
	})
}

func TestLoadTokenizer(t *testing.T) {
	t.Run("empty path loads the demo vocabulary", func(t *testing.T) {
		tok, err := loadTokenizer("")
		if err != nil {
			t.Fatalf("loadTokenizer returned error: %v", err)
		}
		if tok.Size() == 0 {
			t.Fatalf("expected demo vocabulary to be non-empty")
		}
		if tok.UnknownID() < 0 {
			t.Fatalf("expected demo vocabulary to reserve an unknown id")
		}
	})

	t.Run("file path loads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.txt")
		if err := os.WriteFile(path, []byte("[PAD]\n[UNK]\nhello\nworld\n##s\n"), 0o644); err != nil {
			t.Fatalf("write vocab: %v", err)
		}

		tok, err := loadTokenizer(path)
		if err != nil {
			t.Fatalf("loadTokenizer returned error: %v", err)
		}
		if tok.Size() != 5 {
			t.Fatalf("unexpected vocabulary size: got %d want 5", tok.Size())
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := loadTokenizer(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Fatalf("expected error for missing vocabulary file")
		}
	})
}

func TestBuildEngine(t *testing.T) {
	engine, tok, err := buildEngine("", 16)
	if err != nil {
		t.Fatalf("buildEngine returned error: %v", err)
	}
	if engine.Model().ContextSize() != toy.DefaultContextSize {
		t.Fatalf("unexpected context size: got %d want %d", engine.Model().ContextSize(), toy.DefaultContextSize)
	}
	if engine.Tokenizer().UnknownID() != tok.UnknownID() {
		t.Fatalf("engine tokenizer does not match returned tokenizer")
	}
}
