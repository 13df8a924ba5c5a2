package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("vi-VN,vi;q=0.8") != "vi" {
		t.Fatalf("expected vi")
	}
	if DetectLanguage("fr-FR") != "vi" {
		t.Fatalf("expected vi fallback for unsupported language")
	}
	if DetectLanguage("") != "vi" {
		t.Fatalf("expected default vi")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("vi", "required") != "Bắt buộc" {
		t.Fatalf("expected Bắt buộc")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to vi translation if exists
	if T("es", "required") != "Bắt buộc" {
		t.Fatalf("expected vi fallback for es lang")
	}
}
