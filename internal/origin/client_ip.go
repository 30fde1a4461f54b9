package origin

import (
	"net/http"
	"net/netip"
	"strings"
)

var forwardingHeaders = []string{
	"Client-IP",
	"X-Forwarded-For",
	"X-Forwarded",
	"X-Cluster-Client-IP",
	"Forwarded-For",
	"Forwarded",
}

// ClientIP returns the first valid address found in the forwarding headers,
// taking the first hop of comma separated lists, or the socket address.
func ClientIP(r *http.Request) string {
	for _, h := range forwardingHeaders {
		raw := r.Header.Get(h)
		if raw == "" {
			continue
		}
		for _, part := range strings.Split(raw, ",") {
			if ip := headerAddr(part); ip != "" {
				return ip
			}
		}
	}
	return RemoteHost(r.RemoteAddr)
}

func headerAddr(part string) string {
	part = strings.TrimSpace(part)
	// RFC 7239 form: for=192.0.2.60;proto=http
	for _, kv := range strings.Split(part, ";") {
		kv = strings.TrimSpace(kv)
		if v, ok := strings.CutPrefix(strings.ToLower(kv), "for="); ok {
			part = strings.Trim(v, `"`)
			break
		}
	}
	if a, err := netip.ParseAddr(part); err == nil {
		return a.Unmap().String()
	}
	// [2001:db8::1]:4711 and 192.0.2.60:80
	if ap, err := netip.ParseAddrPort(part); err == nil {
		return ap.Addr().Unmap().String()
	}
	if v, ok := strings.CutPrefix(part, "["); ok {
		if v, ok := strings.CutSuffix(v, "]"); ok {
			if a, err := netip.ParseAddr(v); err == nil {
				return a.Unmap().String()
			}
		}
	}
	return ""
}
