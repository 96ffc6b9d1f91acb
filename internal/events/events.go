// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"storebot_backend/platform/events"
	"storebot_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Catalog Domain Events
// =============================================================================

// ProductAdded is published when the admin adds or replaces a product.
type ProductAdded struct {
	BaseEvent
	Name         string   `json:"name"`
	VariantCodes []string `json:"variantCodes"`
}

func (e ProductAdded) EventName() string { return "catalog.product.added" }

// ProductRemoved is published when the admin removes a product.
type ProductRemoved struct {
	BaseEvent
	Name string `json:"name"`
}

func (e ProductRemoved) EventName() string { return "catalog.product.removed" }

// VariantUpdated is published when the admin replaces a variant.
type VariantUpdated struct {
	BaseEvent
	Product string `json:"product"`
	OldCode string `json:"oldCode"`
	NewCode string `json:"newCode"`
	Price   int    `json:"price"`
}

func (e VariantUpdated) EventName() string { return "catalog.variant.updated" }

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderPlaced is published when a customer orders a variant by code.
type OrderPlaced struct {
	BaseEvent
	OrderID  string `json:"orderId"`
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Product  string `json:"product"`
	Variant  string `json:"variant"`
	Price    int    `json:"price"`
}

func (e OrderPlaced) EventName() string { return "order.placed" }

// OrderCompleted is published when the admin confirms an order as done.
type OrderCompleted struct {
	BaseEvent
	ChatID   string `json:"chatId"`
	BuyerID  string `json:"buyerId"`
	Product  string `json:"product"`
	Variant  string `json:"variant"`
	Price    int    `json:"price"`
}

func (e OrderCompleted) EventName() string { return "order.completed" }

// =============================================================================
// Session Domain Events
// =============================================================================

// SessionConnected is published when the gateway reports an open connection.
type SessionConnected struct {
	BaseEvent
}

func (e SessionConnected) EventName() string { return "session.connected" }

// SessionLoggedOut is published when the gateway reports a forced logout.
type SessionLoggedOut struct {
	BaseEvent
}

func (e SessionLoggedOut) EventName() string { return "session.logged_out" }

// =============================================================================
// Router Domain Events
// =============================================================================

// MessageFailed is published when handling an inbound message panics or a
// persistence write fails. Consumed by the alert side channel, never by the
// chat path that produced it.
type MessageFailed struct {
	BaseEvent
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Command  string `json:"command"`
	Reason   string `json:"reason"`
}

func (e MessageFailed) EventName() string { return "router.message.failed" }
