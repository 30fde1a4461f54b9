package checkout

import "github.com/josh-kwaku/dotpay-gateway/internal/dotpay"

type Gateway string

const (
	GatewayStandard Gateway = "standard"
	GatewayTransfer Gateway = "transfer"
)

func ParseGateway(s string) (Gateway, bool) {
	switch Gateway(s) {
	case GatewayStandard, GatewayTransfer:
		return Gateway(s), true
	case "":
		return GatewayStandard, true
	}
	return "", false
}

type route struct {
	groups          []string
	gateway         Gateway
	requiresAccount bool
}

// routes is checked in order; the first route whose groups contain the
// selected channel wins. Anything unmatched uses the standard gateway.
var routes = []route{
	{groups: []string{dotpay.GroupCash, dotpay.GroupTransfers}, gateway: GatewayTransfer, requiresAccount: true},
}

func routeFor(channels []dotpay.Channel, channelID int) (route, bool) {
	if channelID <= 0 {
		return route{}, false
	}
	for _, r := range routes {
		if dotpay.InGroup(channels, channelID, r.groups...) {
			return r, true
		}
	}
	return route{}, false
}
