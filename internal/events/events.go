// Package events provides event handling functionality
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/arcvault/arcvault/internal/db/models"
	"github.com/arcvault/arcvault/internal/logger"
)

// EventType represents the type of job lifecycle event
type EventType string

const (
	// EventJobDispatched is emitted when a job has been handed to the
	// orchestrator and recorded
	EventJobDispatched EventType = "job_dispatched"
	// EventJobFinished is emitted when a job completion has been recorded
	EventJobFinished EventType = "job_finished"
	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a job lifecycle event
type Event struct {
	Type    EventType      // The type of event
	JobID   string         // The job ID assigned by the orchestrator
	JobType models.JobType // The kind of work the job performs
	OID     uuid.UUID      // The owning organization
	Success *bool          // The outcome, set for finished events
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

var (
	// handlers is a map of event types to their handlers
	handlers = make(map[EventType][]Handler)
	// handlersMu is a mutex for the handlers map
	handlersMu sync.RWMutex
	// eventChan is a channel for events
	eventChan = make(chan Event, EventChannelSize)
)

// Subscribe registers a handler for a specific event type
func Subscribe(eventType EventType, handler Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[eventType] = append(handlers[eventType], handler)
	logger.Debugf("📝 Registered handler for event type: %s", eventType)
}

// Publish sends an event to be processed
func Publish(event Event) {
	eventChan <- event
	logger.Debugf("📢 Published event: %s (job: %s)", event.Type, event.JobID)
}

// Start starts the event processing loop
func Start(ctx context.Context) {
	go processEvents(ctx)
	logger.Info("🎯 Started event processing loop")
}

// processEvents handles events in the background
func processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 Stopping event processing loop")
			return
		case event := <-eventChan:
			handlersMu.RLock()
			eventHandlers := handlers[event.Type]
			handlersMu.RUnlock()

			// Process event with all registered handlers
			for _, handler := range eventHandlers {
				go func(h Handler, e Event) {
					if err := h(ctx, e); err != nil {
						logger.Errorf("❌ Failed to handle event %s for job %s: %v", e.Type, e.JobID, err)
					}
				}(handler, event)
			}
		}
	}
}
