package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskCookie(t *testing.T) {
	got := MaskCookie("session=abcdef1234; other=xyz")
	want := "session=****1234; other=****xyz"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskHeadersHidesShopifyToken(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Shopify-Access-Token", "shpat_abcdef9876")
	headers.Set("Content-Type", "application/json")

	masked := MaskHeaders(headers)
	if masked["X-Shopify-Access-Token"] != "****9876" {
		t.Fatalf("expected masked token, got %q", masked["X-Shopify-Access-Token"])
	}
	if masked["Content-Type"] != "application/json" {
		t.Fatalf("expected content type untouched, got %q", masked["Content-Type"])
	}
}

func TestMaskJSON(t *testing.T) {
	input := map[string]any{
		"password":     "hunter2",
		"access_token": "shpat_12345678",
		"nested": map[string]any{
			"api_key": "key_12345678",
		},
	}
	masked := MaskJSON(input)
	if masked["password"] != "****ter2" {
		t.Fatalf("expected masked password, got %v", masked["password"])
	}
	if masked["access_token"] != "****5678" {
		t.Fatalf("expected masked access_token, got %v", masked["access_token"])
	}
	nested, ok := masked["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["api_key"] != "****5678" {
		t.Fatalf("expected masked api_key, got %v", nested["api_key"])
	}
}

func TestSafeFieldsFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/rates", nil)
	req.Header.Set("X-Shopify-Access-Token", "shpat_abcdef9876")

	fields := SafeFieldsFromRequest(req)
	if fields["method"] != http.MethodPost {
		t.Fatalf("expected POST, got %v", fields["method"])
	}
	if fields["path"] != "/v1/rates" {
		t.Fatalf("expected /v1/rates, got %v", fields["path"])
	}
	headers, ok := fields["headers"].(map[string]string)
	if !ok {
		t.Fatalf("expected masked headers map")
	}
	if headers["X-Shopify-Access-Token"] != "****9876" {
		t.Fatalf("expected masked token, got %q", headers["X-Shopify-Access-Token"])
	}
}
