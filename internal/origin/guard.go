package origin

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultAllowList holds the addresses Dotpay sends notifications from.
var DefaultAllowList = []string{
	"195.150.9.37",
	"91.216.191.181",
	"91.216.191.182",
	"91.216.191.183",
	"91.216.191.184",
	"91.216.191.185",
	"5.252.202.254",
	"5.252.202.255",
}

const DefaultOfficeAddr = "77.79.195.34"

type Guard struct {
	allowList   []netip.Prefix
	office      netip.Addr
	proxyBypass bool
}

// NewGuard parses allow-list entries given as single addresses or CIDR prefixes.
func NewGuard(allowList []string, officeAddr string, proxyBypass bool) (*Guard, error) {
	g := &Guard{proxyBypass: proxyBypass}
	for _, entry := range allowList {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		p, err := parsePrefix(entry)
		if err != nil {
			return nil, fmt.Errorf("NewGuard: %w", err)
		}
		g.allowList = append(g.allowList, p)
	}
	if officeAddr != "" {
		a, err := netip.ParseAddr(strings.TrimSpace(officeAddr))
		if err != nil {
			return nil, fmt.Errorf("NewGuard: office address: %w", err)
		}
		g.office = a.Unmap()
	}
	return g, nil
}

func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	a = a.Unmap()
	return netip.PrefixFrom(a, a.BitLen()), nil
}

func (g *Guard) ProxyBypass() bool { return g.proxyBypass }

// IsAllowed reports whether addr falls inside the allow-list.
func (g *Guard) IsAllowed(addr string) bool {
	a, ok := parseAddr(addr)
	if !ok {
		return false
	}
	for _, p := range g.allowList {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// IsTrusted checks the notification origin. With proxy bypass only the socket
// address counts; otherwise a match on either address is enough.
func (g *Guard) IsTrusted(remoteAddr, clientIP string) bool {
	if g.IsAllowed(remoteAddr) {
		return true
	}
	if g.proxyBypass {
		return false
	}
	return g.IsAllowed(clientIP)
}

// IsOffice reports whether the request is a diagnostics GET from the Dotpay office.
func (g *Guard) IsOffice(remoteAddr, clientIP, method string) bool {
	if !g.office.IsValid() || !MethodAllowed(method, http.MethodGet) {
		return false
	}
	if a, ok := parseAddr(remoteAddr); ok && a == g.office {
		return true
	}
	if g.proxyBypass {
		return false
	}
	a, ok := parseAddr(clientIP)
	return ok && a == g.office
}

func MethodAllowed(method, expected string) bool {
	return strings.EqualFold(method, expected)
}

// RemoteHost strips the port from an http.Request RemoteAddr.
func RemoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	a, err := netip.ParseAddr(RemoteHost(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return a.Unmap(), true
}
