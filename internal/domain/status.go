package domain

// orderTransitions lists the states an admin may move an order to. Cancellation
// is not in the graph because it restocks and goes through its own operation.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusReturned},
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in status s may be cancelled. Customers
// may only cancel processing orders; admins may also cancel pending ones.
func Cancellable(s OrderStatus, admin bool) bool {
	return s == StatusProcessing || (admin && s == StatusPending)
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}
