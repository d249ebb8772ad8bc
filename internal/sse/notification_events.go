package sse

import (
	"context"
	"sync"

	"campus-portal/internal/models"
)

// NotificationEmitter fans notification events out to stream clients.
type NotificationEmitter struct {
	clients     []chan models.NotificationEvent
	clientMutex sync.RWMutex
	onChange    func(int)
}

func NewNotificationEmitter() *NotificationEmitter {
	return &NotificationEmitter{}
}

// OnClientCountChange registers a callback invoked with the new client count.
func (e *NotificationEmitter) OnClientCountChange(fn func(int)) {
	e.clientMutex.Lock()
	e.onChange = fn
	e.clientMutex.Unlock()
}

// Subscribe adds a client until ctx is done.
func (e *NotificationEmitter) Subscribe(ctx context.Context) chan models.NotificationEvent {
	clientChan := make(chan models.NotificationEvent, 10)

	e.clientMutex.Lock()
	e.clients = append(e.clients, clientChan)
	count, onChange := len(e.clients), e.onChange
	e.clientMutex.Unlock()

	if onChange != nil {
		onChange(count)
	}

	go func() {
		<-ctx.Done()
		e.removeClient(clientChan)
	}()

	return clientChan
}

// Emit broadcasts to all clients. Clients with a full buffer miss the event.
func (e *NotificationEmitter) Emit(event models.NotificationEvent) {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()

	for _, clientChan := range e.clients {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *NotificationEmitter) removeClient(clientChan chan models.NotificationEvent) {
	e.clientMutex.Lock()
	for i, ch := range e.clients {
		if ch == clientChan {
			e.clients = append(e.clients[:i], e.clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	count, onChange := len(e.clients), e.onChange
	e.clientMutex.Unlock()

	if onChange != nil {
		onChange(count)
	}
}

func (e *NotificationEmitter) ClientCount() int {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()
	return len(e.clients)
}
