package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ParamsListKey is the reserved form key holding the sorted list of signed keys.
const ParamsListKey = "paramsList"

// ComputeCHK signs the outbound payment form. The digest is an HMAC-SHA256,
// keyed with the seller PIN, over the PHP json_encode rendering of the sorted
// parameters with paramsList appended.
func ComputeCHK(pin string, params map[string]string) (string, error) {
	keys := sortedKeys(params)

	signed := make(map[string]string, len(params)+1)
	for _, k := range keys {
		signed[k] = params[k]
	}
	signed[ParamsListKey] = strings.Join(keys, ";")

	payload, err := encodePHPJSON(signed)
	if err != nil {
		return "", fmt.Errorf("ComputeCHK: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(pin))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == ParamsListKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodePHPJSON renders a flat string map the way PHP's json_encode does with
// JSON_UNESCAPED_SLASHES: sorted keys, non-ASCII as lowercase \uXXXX, and no
// HTML escaping.
func encodePHPJSON(m map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writePHPString(&b, k); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := writePHPString(&b, m[k]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func writePHPString(b *strings.Builder, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("malformed UTF-8 in %q", s)
	}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(b, `\u%04x`, r)
			case r < utf8.RuneSelf:
				b.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return nil
}
