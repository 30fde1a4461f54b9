package domain

type Outcome string

const (
	OutcomeCompleted              Outcome = "completed"
	OutcomeCompletedVirtual       Outcome = "completed_virtual"
	OutcomeDoubleCompleted        Outcome = "double_completed"
	OutcomeDoubleCompletedVirtual Outcome = "double_completed_virtual"
	OutcomeRejected               Outcome = "rejected"
	OutcomePending                Outcome = "pending"

	// Recorded when a non-positive notification arrives for a paid order;
	// the order status is left untouched.
	OutcomeRejectedSuppressed Outcome = "rejected_suppressed"
	OutcomePendingSuppressed  Outcome = "pending_suppressed"
)

// CompletedOutcome picks the completed variant for the order's fulfilment type.
func CompletedOutcome(needsProcessing, double bool) Outcome {
	switch {
	case double && needsProcessing:
		return OutcomeDoubleCompleted
	case double:
		return OutcomeDoubleCompletedVirtual
	case needsProcessing:
		return OutcomeCompleted
	default:
		return OutcomeCompletedVirtual
	}
}

// Suppressed maps a non-positive outcome to its suppressed variant.
func (o Outcome) Suppressed() Outcome {
	switch o {
	case OutcomeRejected:
		return OutcomeRejectedSuppressed
	case OutcomePending:
		return OutcomePendingSuppressed
	}
	return o
}

// OrderStatus is the status the outcome writes. Suppressed outcomes write none.
func (o Outcome) OrderStatus() OrderStatus {
	switch o {
	case OutcomeCompleted:
		return OrderStatusProcessing
	case OutcomeCompletedVirtual:
		return OrderStatusCompleted
	case OutcomeDoubleCompleted, OutcomeDoubleCompletedVirtual:
		return OrderStatusDouble
	case OutcomeRejected:
		return OrderStatusFailed
	case OutcomeRejectedSuppressed, OutcomePendingSuppressed:
		return ""
	default:
		return OrderStatusPending
	}
}
