package redact

import (
	"net/http"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// TruncatedSuffix marks payloads cut at the capture limit.
const TruncatedSuffix = "...[TRUNCATED]"

// sensitiveKeyFragments are matched case-insensitively against field and
// header names, ignoring '-' and '_'.
var sensitiveKeyFragments = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"authorization",
	"apikey",
	"cookie",
	"session",
	"creditcard",
	"cardnumber",
	"cvv",
	"ssn",
	"privatekey",
}

// jsonPairPattern matches a quoted key and its value in raw JSON text. The
// closing quote of a string value is optional so values cut at a capture limit
// still match.
var jsonPairPattern = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"(\s*:\s*)("(?:[^"\\]|\\.)*"?|[^,}\]\s]+)`)

// IsSensitiveKey reports whether a field or header name holds a value that
// must never be logged.
func IsSensitiveKey(key string) bool {
	normalized := strings.ToLower(key)
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(normalized, fragment) {
			return true
		}
	}
	return false
}

// Value returns a sanitized deep copy of a decoded JSON value: values under
// sensitive keys are replaced, strings pass through String.
func Value(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(typed))
		for key, inner := range typed {
			if IsSensitiveKey(key) {
				out[key] = RedactionPlaceholder
				continue
			}
			out[key] = Value(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, inner := range typed {
			out[i] = Value(inner)
		}
		return out
	case string:
		return String(typed)
	default:
		return typed
	}
}

// JSON sanitizes a JSON payload for logging. Bodies that are not valid JSON
// are redacted as plain text after masking any "key": value pairs under
// sensitive keys. When truncated is true the payload was cut at a capture
// limit and is never parsed.
func JSON(body []byte, truncated bool) string {
	if len(body) == 0 {
		return ""
	}
	if truncated {
		return String(maskPairs(string(body))) + TruncatedSuffix
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return String(maskPairs(string(body)))
	}

	sanitized, err := json.Marshal(Value(decoded))
	if err != nil {
		return RedactionPlaceholder
	}
	return string(sanitized)
}

// maskPairs replaces the values of sensitive keys in raw JSON text.
func maskPairs(text string) string {
	return jsonPairPattern.ReplaceAllStringFunc(text, func(pair string) string {
		parts := jsonPairPattern.FindStringSubmatch(pair)
		if !IsSensitiveKey(parts[1]) {
			return pair
		}
		return `"` + parts[1] + `"` + parts[2] + `"` + RedactionPlaceholder + `"`
	})
}

// Headers returns a flat, sanitized copy of h suitable for logging.
func Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if IsSensitiveKey(name) {
			out[name] = RedactionPlaceholder
			continue
		}
		out[name] = String(strings.Join(values, ", "))
	}
	return out
}

// Query sanitizes a raw URL query string.
func Query(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	parts := strings.Split(rawQuery, "&")
	for i, part := range parts {
		key, _, found := strings.Cut(part, "=")
		if found && IsSensitiveKey(key) {
			parts[i] = key + "=" + RedactionPlaceholder
		}
	}
	return String(strings.Join(parts, "&"))
}
