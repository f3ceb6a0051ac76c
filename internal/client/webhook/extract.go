package webhookclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
)

// ExtractScanResult picks the first present field in dto.ScanSourcePriority.
// A field is present unless it is null, false, zero or the empty string.
// When no field matches, the whole response is pretty-printed.
func ExtractScanResult(data any) dto.ScanResult {
	if obj, ok := data.(map[string]any); ok {
		for _, src := range dto.ScanSourcePriority {
			if v := obj[string(src)]; present(v) {
				return dto.ScanResult{Source: src, Text: render(v)}
			}
		}
	}
	return dto.ScanResult{Source: dto.ScanSourceRaw, Text: pretty(data)}
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	}
	return true
}

// render returns strings verbatim and anything else as indented JSON.
func render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return pretty(v)
}

func pretty(v any) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
