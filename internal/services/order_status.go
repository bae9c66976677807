package services

import "strings"

// Order and item status values. Stored as plain strings; transitions are
// validated at the service boundary.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusCancel    = "cancel"
	StatusCompleted = "completed"
)

// isCancelStatus matches the cancel status case-insensitively, the same way
// the delivered check works.
func isCancelStatus(status string) bool {
	return strings.EqualFold(status, StatusCancel)
}

// validateStatusChange enforces the one hard transition rule: moving to
// cancel requires a non-empty cancel reason.
func validateStatusChange(status string, cancelReason *string) error {
	if isCancelStatus(status) && (cancelReason == nil || strings.TrimSpace(*cancelReason) == "") {
		return ErrCancelReasonRequired
	}
	return nil
}

// allItemsDelivered reports whether a non-empty item set is entirely
// delivered. A cancelled item keeps the set from ever satisfying this, which
// blocks order auto-completion; that behaviour is intentional.
func allItemsDelivered(statuses []string) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, status := range statuses {
		if !strings.EqualFold(status, StatusDelivered) {
			return false
		}
	}
	return true
}
