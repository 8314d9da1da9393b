package orders

import "github.com/medistore/medistore-backend/pkg/enums"

// AggregateStatus derives a parent order status from its seller orders. The
// boolean is false when there are no children, in which case the parent is
// left untouched.
func AggregateStatus(children []enums.OrderStatus) (enums.OrderStatus, bool) {
	if len(children) == 0 {
		return "", false
	}

	allDelivered, allCancelled := true, true
	anyShipped, anyProcessing := false, false
	for _, status := range children {
		if status != enums.OrderStatusDelivered {
			allDelivered = false
		}
		if status != enums.OrderStatusCancelled {
			allCancelled = false
		}
		switch status {
		case enums.OrderStatusShipped:
			anyShipped = true
		case enums.OrderStatusProcessing:
			anyProcessing = true
		}
	}

	switch {
	case allDelivered:
		return enums.OrderStatusDelivered, true
	case allCancelled:
		return enums.OrderStatusCancelled, true
	case anyShipped, anyProcessing:
		return enums.OrderStatusProcessing, true
	default:
		return enums.OrderStatusPlaced, true
	}
}
