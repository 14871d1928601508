package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder      OutboxAggregateType = "order"
	AggregateDelivery   OutboxAggregateType = "delivery"
	AggregateRestaurant OutboxAggregateType = "restaurant"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateDelivery,
	AggregateRestaurant,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderPlaced         OutboxEventType = "order_placed"
	EventOrderStatusChanged  OutboxEventType = "order_status_changed"
	EventOrderCancelled      OutboxEventType = "order_cancelled"
	EventOrderExpired        OutboxEventType = "order_expired"
	EventDeliveryQueued      OutboxEventType = "delivery_queued"
	EventDeliveryAssigned    OutboxEventType = "delivery_assigned"
	EventDeliveryCompleted   OutboxEventType = "delivery_completed"
	EventRestaurantSuspended OutboxEventType = "restaurant_suspended"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderPlaced,
	EventOrderStatusChanged,
	EventOrderCancelled,
	EventOrderExpired,
	EventDeliveryQueued,
	EventDeliveryAssigned,
	EventDeliveryCompleted,
	EventRestaurantSuspended,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// OutboxDLQErrorReason explains why an event landed in the dead letter table.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts"
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
)

var validOutboxDLQErrorReasons = []OutboxDLQErrorReason{
	OutboxDLQReasonMaxAttempts,
	OutboxDLQReasonNonRetryable,
}

func (r OutboxDLQErrorReason) IsValid() bool {
	for _, candidate := range validOutboxDLQErrorReasons {
		if candidate == r {
			return true
		}
	}
	return false
}
