package webhookclient

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func TestExtractScanResult(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		source dto.ScanSource
		text   string
	}{
		{"image url wins", `{"message":"m","imageUrl":"https://img/x.png","output":"o"}`, dto.ScanSourceImageURL, "https://img/x.png"},
		{"output before result", `{"result":"r","output":"o"}`, dto.ScanSourceOutput, "o"},
		{"empty string skipped", `{"output":"","analysis":"a"}`, dto.ScanSourceAnalysis, "a"},
		{"null skipped", `{"output":null,"data":"d"}`, dto.ScanSourceData, "d"},
		{"message last", `{"message":"done"}`, dto.ScanSourceMessage, "done"},
		{"object pretty printed", `{"result":{"label":"coffee"}}`, dto.ScanSourceResult, "{\n  \"label\": \"coffee\"\n}"},
		{"number kept", `{"data":12.50}`, dto.ScanSourceData, "12.50"},
		{"false skipped", `{"output":false,"message":"m"}`, dto.ScanSourceMessage, "m"},
		{"zero skipped", `{"result":0,"data":0.0,"message":"m"}`, dto.ScanSourceMessage, "m"},
		{"true kept", `{"output":true}`, dto.ScanSourceOutput, "true"},
		{"empty object kept", `{"result":{}}`, dto.ScanSourceResult, "{}"},
		{"html not escaped", `{"data":{"note":"<b>&</b>"}}`, dto.ScanSourceData, "{\n  \"note\": \"<b>&</b>\"\n}"},
		{"no known field", `{"foo":1}`, dto.ScanSourceRaw, "{\n  \"foo\": 1\n}"},
		{"array body", `["a"]`, dto.ScanSourceRaw, "[\n  \"a\"\n]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractScanResult(decode(t, tc.body))
			if got.Source != tc.source {
				t.Fatalf("source = %s, want %s", got.Source, tc.source)
			}
			if got.Text != tc.text {
				t.Fatalf("text = %q, want %q", got.Text, tc.text)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	cases := map[string]string{
		`line1\nline2`:      "line1\nline2",
		`a\tb\rc`:           "a\tb\rc",
		`it\'s \"quoted\"`:  `it's "quoted"`,
		`back\\slash`:       `back\slash`,
		`a\\nb`:             "a\\\nb",
		`a\\tb`:             "a\\\tb",
		"no escapes":        "no escapes",
		`trailing \`:        `trailing \`,
	}
	for in, want := range cases {
		if got := Unescape(in); got != want {
			t.Fatalf("Unescape(%q) = %q, want %q", in, got, want)
		}
	}
}
