package fileinfo

import (
	"regexp"
	"testing"
	"time"
)

func TestExtract_CreatedAndTitle(t *testing.T) {
	fi := Extract(nil, "20230405120000Z - Invoice.pdf")
	if fi.Created == nil {
		t.Fatal("expected created date")
	}
	want := time.Date(2023, 4, 5, 12, 0, 0, 0, time.UTC)
	if !fi.Created.Equal(want) {
		t.Errorf("created = %v, want %v", fi.Created, want)
	}
	if fi.Title != "Invoice" {
		t.Errorf("title = %q, want %q", fi.Title, "Invoice")
	}
}

func TestExtract_DateOnlyZeroPadsTime(t *testing.T) {
	fi := Extract(nil, "20230405Z - Invoice.pdf")
	if fi.Created == nil {
		t.Fatal("expected created date")
	}
	want := time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)
	if !fi.Created.Equal(want) {
		t.Errorf("created = %v, want %v", fi.Created, want)
	}
	if fi.Title != "Invoice" {
		t.Errorf("title = %q, want %q", fi.Title, "Invoice")
	}
}

func TestExtract_LowercaseZ(t *testing.T) {
	fi := Extract(nil, "20230405120000z - Invoice.pdf")
	if fi.Created == nil {
		t.Fatal("expected created date for lowercase z suffix")
	}
	if fi.Title != "Invoice" {
		t.Errorf("title = %q", fi.Title)
	}
}

func TestExtract_PlainNameFallsBack(t *testing.T) {
	fi := Extract(nil, "plain-name.pdf")
	if fi.Created != nil {
		t.Errorf("created = %v, want nil", fi.Created)
	}
	if fi.Title != "plain-name" {
		t.Errorf("title = %q, want %q", fi.Title, "plain-name")
	}
}

func TestExtract_DotExtensionOnly(t *testing.T) {
	fi := Extract(nil, ".pdf")
	if fi.Title != "" {
		t.Errorf("title = %q, want empty", fi.Title)
	}
	if fi.Created != nil {
		t.Errorf("created = %v, want nil", fi.Created)
	}
}

func TestExtract_HiddenFileKeepsName(t *testing.T) {
	// A hidden file with a real extension still has its name parsed.
	fi := Extract(nil, ".hidden.pdf")
	if fi.Title != ".hidden" {
		t.Errorf("title = %q, want %q", fi.Title, ".hidden")
	}
}

func TestExtract_MalformedDateRecoversLocally(t *testing.T) {
	// The digit run matches the pattern but is not a real calendar date.
	fi := Extract(nil, "20231399Z - garbage-date.pdf")
	if fi.Created != nil {
		t.Errorf("created = %v, want nil for month 13", fi.Created)
	}
	if fi.Title != "garbage-date" {
		t.Errorf("title = %q, want %q (title survives date failure)", fi.Title, "garbage-date")
	}
}

func TestExtract_RewriteRules(t *testing.T) {
	rules := []RewriteRule{
		{Pattern: regexp.MustCompile(`^scan_(.*)$`), Replacement: "$1"},
		{Pattern: regexp.MustCompile(`^(.*)_final$`), Replacement: "$1"},
	}

	t.Run("first matching rule applies", func(t *testing.T) {
		fi := Extract(rules, "scan_invoice.pdf")
		if fi.Title != "invoice" {
			t.Errorf("title = %q, want %q", fi.Title, "invoice")
		}
	})

	t.Run("only one rule fires", func(t *testing.T) {
		// The first rule strips the prefix; the second must not run even
		// though its pattern would match the rewritten name.
		fi := Extract(rules, "scan_invoice_final.pdf")
		if fi.Title != "invoice_final" {
			t.Errorf("title = %q, want %q", fi.Title, "invoice_final")
		}
	})

	t.Run("no rule matches", func(t *testing.T) {
		fi := Extract(rules, "untouched.pdf")
		if fi.Title != "untouched" {
			t.Errorf("title = %q, want %q", fi.Title, "untouched")
		}
	})

	t.Run("rule may rewrite the extension", func(t *testing.T) {
		ext := []RewriteRule{
			{Pattern: regexp.MustCompile(`\.tiff$`), Replacement: ".tif"},
		}
		fi := Extract(ext, "photo.tiff")
		if fi.Title != "photo" {
			t.Errorf("title = %q, want %q", fi.Title, "photo")
		}
	})
}

func TestExtract_Deterministic(t *testing.T) {
	inputs := []string{
		"20230405120000Z - Invoice.pdf",
		"plain-name.pdf",
		".pdf",
		"",
	}
	for _, in := range inputs {
		a := Extract(nil, in)
		b := Extract(nil, in)
		if a.Title != b.Title {
			t.Errorf("Extract(%q) not deterministic: %q vs %q", in, a.Title, b.Title)
		}
		if (a.Created == nil) != (b.Created == nil) {
			t.Errorf("Extract(%q) created presence differs between calls", in)
		}
	}
}

func TestExtract_PassThroughFieldsStayEmpty(t *testing.T) {
	fi := Extract(nil, "20230405Z - Invoice.pdf")
	if fi.Correspondent != "" || fi.Tags != nil || fi.Extension != "" {
		t.Errorf("extractor populated pass-through fields: %+v", fi)
	}
}

func TestStripExtension(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"invoice.pdf", "invoice"},
		{"archive.tar.gz", "archive.tar"},
		{".bashrc", ".bashrc"},
		{".pdf", ".pdf"},
		{"..pdf", "..pdf"},
		{"noext", "noext"},
		{"", ""},
	}
	for _, c := range cases {
		if got := stripExtension(c.in); got != c.want {
			t.Errorf("stripExtension(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
