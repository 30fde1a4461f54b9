package payload

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ModuleTag identifies this integration inside the control field.
const ModuleTag = "dotpay-gateway"

var controlPattern = regexp.MustCompile(`/id:(\d+)\|domain:`)

// BuildControl renders the control value sent with the payment form. Its
// "/id:<n>|domain:" segment is what ExtractOrderReference reads back.
func BuildControl(orderID int64, domain string) string {
	return fmt.Sprintf("#%d/id:%d|domain:%s|%s", orderID, orderID, domain, ModuleTag)
}

// ExtractOrderReference recovers the merchant order id from a control value.
// It never fails: 0 means nothing usable was found and callers must reject it.
func ExtractOrderReference(control string) int64 {
	matches := controlPattern.FindAllStringSubmatch(control, -1)
	if len(matches) == 1 {
		if id := leadingInt(matches[0][1]); id > 0 {
			return id
		}
	}
	return fallbackReference(control)
}

// fallbackReference handles control values written by older integrations:
// "<id>|..." or "<prefix>/id:<id>" without the domain marker.
func fallbackReference(control string) int64 {
	first, _, _ := strings.Cut(control, "|")
	parts := strings.Split(first, "/id:")
	ref := parts[0]
	if len(parts) > 1 {
		ref = parts[1]
	}
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "#", ""))
	return leadingInt(ref)
}

// leadingInt mirrors a loose integer cast: optional sign, leading digits,
// anything after them ignored.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
