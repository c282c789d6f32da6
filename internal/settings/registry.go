// Package settings resolves configuration options through a layered chain:
// a persisted per-instance override, an environment variable, then a
// compiled-in default.
package settings

// EnvPrefix namespaces the environment variables consulted by the
// resolver: the override for key K lives at PAPERLESS_<K>.
const EnvPrefix = "PAPERLESS_"

// Kind is the declared type of a configuration option.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	}
	return "unknown"
}

// Option declares a registered configuration key: its type and an optional
// compiled-in default.
type Option struct {
	Kind       Kind
	Default    any
	HasDefault bool
}

func str(v string) Option  { return Option{Kind: KindString, Default: v, HasDefault: true} }
func num(v int) Option     { return Option{Kind: KindInt, Default: v, HasDefault: true} }
func flag(v bool) Option   { return Option{Kind: KindBool, Default: v, HasDefault: true} }
func dec(v float64) Option { return Option{Kind: KindFloat, Default: v, HasDefault: true} }

// registry is the process-wide table of recognised configuration keys. It
// is read-only after init; only the external override store is mutable.
var registry = map[string]Option{
	"OCR_LANGUAGE":               str("eng"),
	"OCR_MODE":                   str("skip"),
	"OCR_SKIP_ARCHIVE_FILE":      str("never"),
	"OCR_CLEAN":                  str("clean"),
	"OCR_DESKEW":                 flag(true),
	"OCR_ROTATE_PAGES":           flag(true),
	"OCR_ROTATE_PAGES_THRESHOLD": dec(12.0),
	"OCR_OUTPUT_TYPE":            str("pdfa"),
	"OCR_PAGES":                  num(0),
	"OCR_IMAGE_DPI":              {Kind: KindInt},
	"OCR_MAX_IMAGE_PIXELS":       {Kind: KindInt},
	"OCR_USER_ARGS":              {Kind: KindString},
	"NUMBER_OF_SUGGESTED_DATES":  num(3),
	"IGNORE_DATES":               str(""),
	"DATE_ORDER":                 str("DMY"),
}

// Lookup returns the registry entry for key.
func Lookup(key string) (Option, bool) {
	opt, ok := registry[key]
	return opt, ok
}

// Keys returns every registered configuration key.
func Keys() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}
