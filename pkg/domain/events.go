package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventOperationQueued  EventType = "operation_queued"
	EventOperationApplied EventType = "operation_applied"
	EventImpression       EventType = "impression"
	EventPrefetch         EventType = "prefetch"
	EventCancelPrefetch   EventType = "cancel_prefetch"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ListID    string    `json:"list_id"`
}

// OperationEvent reports a mutation entering the queue or reaching the surface.
type OperationEvent struct {
	EventBase
	Op      Op        `json:"op"`
	Mode    ApplyMode `json:"mode"`
	Pending int       `json:"pending"`
	// Changed is false when every reference of the operation was ignored.
	Changed  bool `json:"changed"`
	Sections int  `json:"sections"`
	Items    int  `json:"items"`
}

// ImpressionEvent reports an item that crossed the visibility threshold for
// the first time.
type ImpressionEvent struct {
	EventBase
	Section string `json:"section"`
	Item    string `json:"item"`
	Index   int    `json:"index"`
}

// PrefetchEvent reports indices forwarded to one section.
type PrefetchEvent struct {
	EventBase
	Section string `json:"section"`
	Indices []int  `json:"indices"`
}

// Hooks defines callbacks for engine observability. Every field is optional.
// Callbacks run synchronously on the goroutine that triggered them.
type Hooks struct {
	OnOperationQueued  func(*OperationEvent)
	OnOperationApplied func(*OperationEvent)
	OnImpression       func(*ImpressionEvent)
	OnPrefetch         func(*PrefetchEvent)
	OnCancelPrefetch   func(*PrefetchEvent)
}
