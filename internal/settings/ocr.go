package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// OCRSettings is the assembled options bundle handed to the external OCR
// tool for one invocation.
type OCRSettings struct {
	Pages           int
	Language        string
	OutputType      string
	Mode            string
	SkipArchiveFile string
	ImageDPI        int
	Clean           string
	Deskew          bool
	Rotate          bool
	RotateThreshold float64
	MaxImagePixels  int
	UserArgs        map[string]string
}

// OCR assembles the OCR options bundle from the resolver. Because the
// environment layer hands back raw strings even for numeric and boolean
// keys, every field is funnelled through a lenient conversion.
func OCR(r *Resolver) (OCRSettings, error) {
	var s OCRSettings
	var err error

	if s.Pages, err = getInt(r, "OCR_PAGES"); err != nil {
		return s, err
	}
	if s.Language, err = getString(r, "OCR_LANGUAGE"); err != nil {
		return s, err
	}
	if s.OutputType, err = getString(r, "OCR_OUTPUT_TYPE"); err != nil {
		return s, err
	}
	if s.Mode, err = getString(r, "OCR_MODE"); err != nil {
		return s, err
	}
	if s.SkipArchiveFile, err = getString(r, "OCR_SKIP_ARCHIVE_FILE"); err != nil {
		return s, err
	}
	if s.ImageDPI, err = getInt(r, "OCR_IMAGE_DPI"); err != nil {
		return s, err
	}
	if s.Clean, err = getString(r, "OCR_CLEAN"); err != nil {
		return s, err
	}
	if s.Deskew, err = getBool(r, "OCR_DESKEW"); err != nil {
		return s, err
	}
	if s.Rotate, err = getBool(r, "OCR_ROTATE_PAGES"); err != nil {
		return s, err
	}
	if s.RotateThreshold, err = getFloat(r, "OCR_ROTATE_PAGES_THRESHOLD"); err != nil {
		return s, err
	}
	if s.MaxImagePixels, err = getInt(r, "OCR_MAX_IMAGE_PIXELS"); err != nil {
		return s, err
	}

	rawArgs, err := getString(r, "OCR_USER_ARGS")
	if err != nil {
		return s, err
	}
	if rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &s.UserArgs); err != nil {
			return s, fmt.Errorf("settings: decode OCR_USER_ARGS: %w", err)
		}
	}

	return s, nil
}

func getString(r *Resolver, key string) (string, error) {
	v, err := r.Get(key)
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("settings: %s: want string, got %T", key, v)
	}
	return s, nil
}

func getInt(r *Resolver, key string) (int, error) {
	v, err := r.Get(key)
	if err != nil || v == nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("settings: %s: %w", key, err)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("settings: %s: want int, got %T", key, v)
}

func getBool(r *Resolver, key string) (bool, error) {
	v, err := r.Get(key)
	if err != nil || v == nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("settings: %s: %w", key, err)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("settings: %s: want bool, got %T", key, v)
}

func getFloat(r *Resolver, key string) (float64, error) {
	v, err := r.Get(key)
	if err != nil || v == nil {
		return 0, err
	}
	switch f := v.(type) {
	case float64:
		return f, nil
	case string:
		parsed, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, fmt.Errorf("settings: %s: %w", key, err)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("settings: %s: want float, got %T", key, v)
}
