package migrate

import "strings"

// Destination order status ids (BigCommerce v2 orders).
const (
	statusPending             = 1
	statusShipped             = 2
	statusRefunded            = 4
	statusCancelled           = 5
	statusDeclined            = 6
	statusAwaitingPayment     = 7
	statusCompleted           = 10
	statusAwaitingFulfillment = 11
)

// Exact source workflow status -> destination status id. Consulted before any
// heuristic so known statuses map deterministically.
var explicitStatusIDs = map[string]int{
	"pending":    statusAwaitingPayment,
	"on-hold":    statusAwaitingPayment,
	"processing": statusAwaitingFulfillment,
	"completed":  statusCompleted,
	"cancelled":  statusCancelled,
	"refunded":   statusRefunded,
	"failed":     statusDeclined,
	"shipped":    statusShipped,
}

// Substring fallbacks for custom workflow statuses, checked in order.
var statusSubstringRules = []struct {
	substring string
	id        int
}{
	{"complete", statusCompleted},
	{"cancel", statusCancelled},
	{"refund", statusRefunded},
	{"fail", statusDeclined},
	{"hold", statusAwaitingPayment},
	{"ship", statusAwaitingFulfillment},
	{"process", statusAwaitingFulfillment},
}

// DestinationStatusID maps a source order status to the destination numeric
// status id: explicit table first, then substring heuristics, then pending.
func DestinationStatusID(sourceStatus string) int {
	s := strings.ToLower(strings.TrimSpace(sourceStatus))
	s = strings.TrimPrefix(s, "wc-")

	if id, ok := explicitStatusIDs[s]; ok {
		return id
	}
	for _, rule := range statusSubstringRules {
		if strings.Contains(s, rule.substring) {
			return rule.id
		}
	}
	return statusPending
}
