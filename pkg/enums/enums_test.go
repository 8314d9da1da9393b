package enums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole(" seller ")
	require.NoError(t, err)
	require.Equal(t, UserRoleSeller, role)
	require.True(t, role.SelfAssignable())
	require.False(t, UserRoleAdmin.SelfAssignable())

	_, err = ParseUserRole("pharmacist")
	require.Error(t, err)
}

func TestParseUserStatus(t *testing.T) {
	status, err := ParseUserStatus("suspended")
	require.NoError(t, err)
	require.Equal(t, UserStatusSuspended, status)

	_, err = ParseUserStatus("BANNED")
	require.Error(t, err)
}

func TestParseMedicineStatus(t *testing.T) {
	status, err := ParseMedicineStatus("inactive")
	require.NoError(t, err)
	require.Equal(t, MedicineStatusInactive, status)
	require.False(t, MedicineStatus("DRAFT").IsValid())
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPlaced, OrderStatusProcessing, true},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPlaced, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	require.True(t, OrderStatusDelivered.IsTerminal())
	require.False(t, OrderStatusShipped.IsTerminal())

	parsed, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	require.Equal(t, OrderStatusShipped, parsed)
}

func TestOutboxEnums(t *testing.T) {
	event, err := ParseOutboxEventType("order.placed")
	require.NoError(t, err)
	require.Equal(t, EventOrderPlaced, event)
	require.True(t, AggregateOrder.IsValid())
	_, err = ParseOutboxAggregateType("vendor_order")
	require.Error(t, err)
}
