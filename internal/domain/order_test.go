package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("不存在的状态").IsValid())
}

func TestOrderStatusTransitions(t *testing.T) {
	// 正常流转
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusPreparing))
	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusReady))
	assert.True(t, OrderStatusReady.CanTransitionTo(OrderStatusDelivering))
	assert.True(t, OrderStatusDelivering.CanTransitionTo(OrderStatusCompleted))

	// 取消只允许在接单和备餐阶段
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusReady.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusDelivering.CanTransitionTo(OrderStatusCancelled))

	// 不允许跳步或回退
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusReady))
	assert.False(t, OrderStatusPreparing.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusDelivering.CanTransitionTo(OrderStatusReady))
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, next := range []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled} {
		assert.False(t, OrderStatusCompleted.CanTransitionTo(next))
		assert.False(t, OrderStatusCancelled.CanTransitionTo(next))
	}
}
