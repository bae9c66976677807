package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidateStatusChange(t *testing.T) {
	assert.NoError(t, validateStatusChange(StatusDelivered, nil))
	assert.NoError(t, validateStatusChange(StatusPending, nil))
	assert.NoError(t, validateStatusChange(StatusCancel, strPtr("customer unavailable")))

	assert.ErrorIs(t, validateStatusChange(StatusCancel, nil), ErrCancelReasonRequired)
	assert.ErrorIs(t, validateStatusChange(StatusCancel, strPtr("")), ErrCancelReasonRequired)
	assert.ErrorIs(t, validateStatusChange(StatusCancel, strPtr("   ")), ErrCancelReasonRequired)

	// The cancel check is case-insensitive.
	assert.ErrorIs(t, validateStatusChange("Cancel", nil), ErrCancelReasonRequired)
	assert.ErrorIs(t, validateStatusChange("CANCEL", nil), ErrCancelReasonRequired)
}

func TestAllItemsDelivered(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     bool
	}{
		{"empty set", []string{}, false},
		{"all delivered", []string{"delivered", "delivered"}, true},
		{"mixed case delivered", []string{"Delivered", "DELIVERED"}, true},
		{"one pending", []string{"delivered", "pending"}, false},
		{"single delivered", []string{"delivered"}, true},
		{"cancelled item blocks completion", []string{"delivered", "cancel"}, false},
		{"all cancelled", []string{"cancel"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allItemsDelivered(tt.statuses))
		})
	}
}
