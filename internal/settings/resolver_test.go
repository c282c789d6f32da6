package settings

import (
	"errors"
	"testing"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
)

// memStore is an in-memory OverrideStore for tests.
type memStore struct {
	m map[string]string
}

func newMemStore() *memStore {
	return &memStore{m: make(map[string]string)}
}

func (s *memStore) Option(key string) (string, bool, error) {
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStore) SetOption(key, value string) error {
	s.m[key] = value
	return nil
}

func TestGet_Default(t *testing.T) {
	r := NewResolver(newMemStore())

	v, err := r.Get("OCR_LANGUAGE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "eng" {
		t.Errorf("OCR_LANGUAGE = %v, want eng", v)
	}
}

func TestGet_NoDefaultResolvesNil(t *testing.T) {
	r := NewResolver(newMemStore())

	v, err := r.Get("OCR_IMAGE_DPI")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != nil {
		t.Errorf("OCR_IMAGE_DPI = %v, want nil", v)
	}
}

func TestGet_StoredOverrideCoerced(t *testing.T) {
	store := newMemStore()
	store.m["OCR_PAGES"] = "4"
	store.m["OCR_DESKEW"] = "false"
	store.m["OCR_ROTATE_PAGES_THRESHOLD"] = "8.5"
	r := NewResolver(store)

	if v, err := r.Get("OCR_PAGES"); err != nil || v != 4 {
		t.Errorf("OCR_PAGES = %v (%v), want 4", v, err)
	}
	if v, err := r.Get("OCR_DESKEW"); err != nil || v != false {
		t.Errorf("OCR_DESKEW = %v (%v), want false", v, err)
	}
	if v, err := r.Get("OCR_ROTATE_PAGES_THRESHOLD"); err != nil || v != 8.5 {
		t.Errorf("OCR_ROTATE_PAGES_THRESHOLD = %v (%v), want 8.5", v, err)
	}
}

func TestGet_EmptyOverrideFallsThrough(t *testing.T) {
	store := newMemStore()
	store.m["OCR_MODE"] = ""
	r := NewResolver(store)

	v, err := r.Get("OCR_MODE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "skip" {
		t.Errorf("OCR_MODE = %v, want default skip", v)
	}
}

func TestGet_MalformedOverrideErrors(t *testing.T) {
	store := newMemStore()
	store.m["OCR_PAGES"] = "three"
	r := NewResolver(store)

	if _, err := r.Get("OCR_PAGES"); err == nil {
		t.Error("expected coercion error for non-numeric int override")
	}
}

func TestGet_EnvReturnsRawString(t *testing.T) {
	t.Setenv(EnvPrefix+"OCR_PAGES", "7")
	r := NewResolver(newMemStore())

	v, err := r.Get("OCR_PAGES")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// The environment layer returns raw strings even for non-string keys.
	if v != "7" {
		t.Errorf("OCR_PAGES = %v (%T), want string \"7\"", v, v)
	}
}

func TestGet_StoredOverrideBeatsEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"OCR_LANGUAGE", "fra")
	store := newMemStore()
	store.m["OCR_LANGUAGE"] = "deu"
	r := NewResolver(store)

	v, err := r.Get("OCR_LANGUAGE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "deu" {
		t.Errorf("OCR_LANGUAGE = %v, want deu", v)
	}
}

func TestGet_UnknownKeyResolvesNil(t *testing.T) {
	r := NewResolver(newMemStore())

	// Reads tolerate unknown keys; only writes are strict.
	v, err := r.Get("NO_SUCH_KEY")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != nil {
		t.Errorf("unknown key = %v, want nil", v)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	r := NewResolver(newMemStore())

	err := r.Set("NO_SUCH_KEY", "x")
	if !errors.Is(err, apperr.ErrUnknownKey) {
		t.Errorf("err = %v, want ErrUnknownKey", err)
	}
}

func TestSet_TypeMismatchLeavesStoreUntouched(t *testing.T) {
	store := newMemStore()
	store.m["OCR_PAGES"] = "2"
	r := NewResolver(store)

	err := r.Set("OCR_PAGES", "three")
	if !errors.Is(err, apperr.ErrTypeMismatch) {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
	if store.m["OCR_PAGES"] != "2" {
		t.Errorf("stored value = %q, want prior value preserved", store.m["OCR_PAGES"])
	}
}

func TestSet_ExactTypeOnly(t *testing.T) {
	r := NewResolver(newMemStore())

	cases := []struct {
		key   string
		value any
	}{
		{"OCR_DESKEW", "true"},             // string into bool
		{"OCR_LANGUAGE", 1},                // int into string
		{"OCR_ROTATE_PAGES_THRESHOLD", 12}, // int into float
		{"OCR_PAGES", 3.0},                 // float into int
	}
	for _, c := range cases {
		if err := r.Set(c.key, c.value); !errors.Is(err, apperr.ErrTypeMismatch) {
			t.Errorf("Set(%s, %T) err = %v, want ErrTypeMismatch", c.key, c.value, err)
		}
	}
}

func TestSetThenGet_RoundTrip(t *testing.T) {
	r := NewResolver(newMemStore())

	cases := []struct {
		key   string
		value any
	}{
		{"OCR_LANGUAGE", "nld"},
		{"OCR_PAGES", 12},
		{"OCR_DESKEW", false},
		{"OCR_ROTATE_PAGES_THRESHOLD", 6.25},
	}
	for _, c := range cases {
		if err := r.Set(c.key, c.value); err != nil {
			t.Fatalf("Set(%s): %v", c.key, err)
		}
		got, err := r.Get(c.key)
		if err != nil {
			t.Fatalf("Get(%s): %v", c.key, err)
		}
		if got != c.value {
			t.Errorf("Get(%s) = %v (%T), want %v (%T)", c.key, got, got, c.value, c.value)
		}
	}
}

func TestSet_ReplacesPriorOverride(t *testing.T) {
	r := NewResolver(newMemStore())

	if err := r.Set("DATE_ORDER", "MDY"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := r.Set("DATE_ORDER", "YMD"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := r.Get("DATE_ORDER")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "YMD" {
		t.Errorf("DATE_ORDER = %v, want YMD", v)
	}
}

func TestKeys_CoversRegistry(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 {
		t.Fatal("empty registry")
	}
	for _, k := range keys {
		if _, ok := Lookup(k); !ok {
			t.Errorf("Keys() returned unregistered key %s", k)
		}
	}
}
