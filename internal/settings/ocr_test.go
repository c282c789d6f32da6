package settings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOCR_Defaults(t *testing.T) {
	r := NewResolver(newMemStore())

	s, err := OCR(r)
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}

	want := OCRSettings{
		Pages:           0,
		Language:        "eng",
		OutputType:      "pdfa",
		Mode:            "skip",
		SkipArchiveFile: "never",
		Clean:           "clean",
		Deskew:          true,
		Rotate:          true,
		RotateThreshold: 12.0,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("OCR settings mismatch (-want +got):\n%s", diff)
	}
}

func TestOCR_StoredOverrides(t *testing.T) {
	store := newMemStore()
	store.m["OCR_LANGUAGE"] = "deu"
	store.m["OCR_PAGES"] = "2"
	store.m["OCR_DESKEW"] = "false"
	r := NewResolver(store)

	s, err := OCR(r)
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}
	if s.Language != "deu" || s.Pages != 2 || s.Deskew {
		t.Errorf("overrides not applied: %+v", s)
	}
}

func TestOCR_EnvStringsConverted(t *testing.T) {
	// The env layer yields raw strings for numeric and boolean keys; the
	// bundle assembly must still produce typed fields.
	t.Setenv(EnvPrefix+"OCR_PAGES", "9")
	t.Setenv(EnvPrefix+"OCR_ROTATE_PAGES", "false")
	t.Setenv(EnvPrefix+"OCR_ROTATE_PAGES_THRESHOLD", "4.5")
	r := NewResolver(newMemStore())

	s, err := OCR(r)
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}
	if s.Pages != 9 {
		t.Errorf("Pages = %d, want 9", s.Pages)
	}
	if s.Rotate {
		t.Error("Rotate = true, want false")
	}
	if s.RotateThreshold != 4.5 {
		t.Errorf("RotateThreshold = %v, want 4.5", s.RotateThreshold)
	}
}

func TestOCR_UserArgs(t *testing.T) {
	store := newMemStore()
	store.m["OCR_USER_ARGS"] = `{"continue_on_soft_render_error":"true"}`
	r := NewResolver(store)

	s, err := OCR(r)
	if err != nil {
		t.Fatalf("OCR: %v", err)
	}
	if s.UserArgs["continue_on_soft_render_error"] != "true" {
		t.Errorf("UserArgs = %v", s.UserArgs)
	}
}

func TestOCR_InvalidUserArgs(t *testing.T) {
	store := newMemStore()
	store.m["OCR_USER_ARGS"] = "{not json"
	r := NewResolver(store)

	if _, err := OCR(r); err == nil {
		t.Error("expected error for invalid OCR_USER_ARGS JSON")
	}
}
