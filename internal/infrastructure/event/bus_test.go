package event

import (
	"context"
	"errors"
	"testing"

	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Transaction", uuid.New()),
	}
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	approved := &recordingHandler{types: []string{"TransactionApproved"}}
	paid := &recordingHandler{types: []string{"TransactionPaid"}}
	bus.Subscribe(approved)
	bus.Subscribe(paid)

	require.NoError(t, bus.Publish(ctx, newTestEvent("TransactionApproved")))

	require.Len(t, approved.received, 1)
	assert.Equal(t, "TransactionApproved", approved.received[0].EventType())
	assert.Empty(t, paid.received)
}

func TestInMemoryEventBus_WildcardReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	audit := &recordingHandler{}
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(ctx,
		newTestEvent("TransactionSubmitted"),
		newTestEvent("ContractSigned"),
	))

	require.Len(t, audit.received, 2)
}

func TestInMemoryEventBus_HandlerFailureDoesNotBlockOthers(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	failing := &recordingHandler{types: []string{"TransactionPaid"}, err: errors.New("downstream unavailable")}
	panicking := &recordingHandler{types: []string{"TransactionPaid"}, panics: true}
	healthy := &recordingHandler{types: []string{"TransactionPaid"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(ctx, newTestEvent("TransactionPaid")))

	require.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	handler := &recordingHandler{types: []string{"TransactionApproved"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(ctx, newTestEvent("TransactionApproved")))
	assert.Empty(t, handler.received)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	handler := &recordingHandler{types: []string{"TransactionApproved"}}
	bus.Subscribe(handler, "ContractCompleted")

	require.NoError(t, bus.Publish(ctx, newTestEvent("TransactionApproved")))
	assert.Empty(t, handler.received)

	require.NoError(t, bus.Publish(ctx, newTestEvent("ContractCompleted")))
	assert.Len(t, handler.received, 1)
}

func TestAuditLogHandler_SubscribesToAllEvents(t *testing.T) {
	handler := NewAuditLogHandler(nil)
	assert.Empty(t, handler.EventTypes())
	assert.NoError(t, handler.Handle(context.Background(), newTestEvent("TransactionRejected")))
}
