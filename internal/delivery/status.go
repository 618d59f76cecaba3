package delivery

const (
	StatusPending        = "Pending"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
)

var transitions = map[string][]string{
	StatusPending:        {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      nil,
}

// Statuses lists the known delivery statuses in lifecycle order.
func Statuses() []string {
	return []string{StatusPending, StatusOutForDelivery, StatusDelivered}
}

// CanTransition reports whether an order in status from may move to to.
// Unknown statuses and self-transitions are never allowed.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from from.
func Next(from string) []string {
	return append([]string(nil), transitions[from]...)
}
