package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusConfirmed, StatusProcessing},
		{StatusProcessing, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusConfirmed, StatusCanceled},
		{StatusProcessing, StatusCanceled},
		{StatusShipped, StatusCanceled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to Status }{
		{StatusConfirmed, StatusShipped},
		{StatusConfirmed, StatusDelivered},
		{StatusShipped, StatusProcessing},
		{StatusDelivered, StatusCanceled},
		{StatusDelivered, StatusConfirmed},
		{StatusCanceled, StatusConfirmed},
		{StatusCanceled, StatusProcessing},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"CONFIRMED", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELED"} {
		st, ok := ParseStatus(s)
		assert.True(t, ok)
		assert.Equal(t, Status(s), st)
	}
	_, ok := ParseStatus("REFUNDED")
	assert.False(t, ok)
	_, ok = ParseStatus("confirmed")
	assert.False(t, ok, "statuses are case-sensitive")
}
