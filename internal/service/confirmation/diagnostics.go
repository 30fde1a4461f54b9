package confirmation

import (
	"context"
	"fmt"
	"strings"

	"github.com/josh-kwaku/dotpay-gateway/internal/dotpay"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
)

// Diagnostics is the module summary shown to the processor's office request.
type Diagnostics struct {
	Version      string
	SellerID     string
	TestMode     bool
	ProxyBypass  bool
	APIUsername  string
	AccountValid bool
	ReturnURL    string
}

func (s *Service) Diagnostics(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Version:     s.cfg.Version,
		SellerID:    s.cfg.SellerID,
		TestMode:    s.cfg.TestMode,
		ProxyBypass: s.guard.ProxyBypass(),
		APIUsername: s.cfg.APIUsername,
		ReturnURL:   s.cfg.ReturnURL,
	}
	if s.accounts != nil {
		valid, err := s.accounts.AccountIsValid(ctx, dotpay.Credentials{
			Username: s.cfg.APIUsername,
			Password: s.cfg.APIPassword,
			SellerID: s.cfg.SellerID,
		})
		if err != nil {
			logging.FromContext(ctx).Warn("account check failed", "error", err)
		}
		d.AccountValid = valid
	}
	return d
}

func (d Diagnostics) String() string {
	var b strings.Builder
	b.WriteString("Dotpay payment module debug:\n\n")
	fmt.Fprintf(&b, " * module version: %s\n", d.Version)
	fmt.Fprintf(&b, "  - ID: %s\n", d.SellerID)
	fmt.Fprintf(&b, "  - Test: %t\n", d.TestMode)
	fmt.Fprintf(&b, "  - Proxy server not used: %t\n", d.ProxyBypass)
	b.WriteString("\n --- Dotpay API data: ---\n")
	fmt.Fprintf(&b, "  - Dotpay username: %s\n", d.APIUsername)
	fmt.Fprintf(&b, "  - correct API auth data: %t\n", d.AccountValid)
	fmt.Fprintf(&b, "  - URL return: %s\n", d.ReturnURL)
	return b.String()
}
