package settings

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
)

// OverrideStore is the durable key/value table holding per-instance
// configuration overrides. Values are stored string-encoded.
type OverrideStore interface {
	// Option returns the stored override for key, if any.
	Option(key string) (value string, found bool, err error)
	// SetOption writes the override for key, replacing any prior value.
	SetOption(key, value string) error
}

// Resolver computes effective configuration values. Results are never
// cached; every Get reflects the store and environment at call time.
type Resolver struct {
	store OverrideStore
}

// NewResolver creates a resolver backed by the given override store.
func NewResolver(store OverrideStore) *Resolver {
	return &Resolver{store: store}
}

// Get resolves the effective value for key: a non-empty stored override is
// coerced to the declared type; otherwise a PAPERLESS_<key> environment
// variable is returned as its raw string, whatever the declared type;
// otherwise the compiled-in default. A key with no override, no environment
// value and no default resolves to nil. Unknown keys also resolve to nil
// rather than failing; writes are strict, reads are not.
func (r *Resolver) Get(key string) (any, error) {
	opt, ok := registry[key]
	if !ok {
		return nil, nil
	}

	raw, found, err := r.store.Option(key)
	if err != nil {
		return nil, fmt.Errorf("settings: read override %s: %w", key, err)
	}
	if found && raw != "" {
		v, err := coerce(raw, opt.Kind)
		if err != nil {
			return nil, fmt.Errorf("settings: override %s: %w", key, err)
		}
		return v, nil
	}

	if env, ok := os.LookupEnv(EnvPrefix + key); ok {
		return env, nil
	}

	if opt.HasDefault {
		return opt.Default, nil
	}
	return nil, nil
}

// Set validates value against key's declared type and persists it as the
// stored override. The type must match exactly; no coercion happens on
// write, and nothing is written when validation fails.
func (r *Resolver) Set(key string, value any) error {
	opt, ok := registry[key]
	if !ok {
		return fmt.Errorf("settings: set %s: %w", key, apperr.ErrUnknownKey)
	}

	var raw string
	switch opt.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return typeErr(key, opt.Kind, value)
		}
		raw = s
	case KindInt:
		n, ok := value.(int)
		if !ok {
			return typeErr(key, opt.Kind, value)
		}
		raw = strconv.Itoa(n)
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return typeErr(key, opt.Kind, value)
		}
		raw = strconv.FormatBool(b)
	case KindFloat:
		f, ok := value.(float64)
		if !ok {
			return typeErr(key, opt.Kind, value)
		}
		raw = strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return typeErr(key, opt.Kind, value)
	}

	if err := r.store.SetOption(key, raw); err != nil {
		return fmt.Errorf("settings: write override %s: %w", key, err)
	}
	return nil
}

func typeErr(key string, want Kind, got any) error {
	return fmt.Errorf("settings: set %s: want %s, got %T: %w", key, want, got, apperr.ErrTypeMismatch)
}

// coerce converts a string-encoded override into the declared type.
func coerce(raw string, kind Kind) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to int: %w", raw, err)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to bool: %w", raw, err)
		}
		return b, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("coerce %q to float: %w", raw, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("coerce: unknown kind %d", kind)
}
