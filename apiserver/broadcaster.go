package apiserver

import "sync"

// EventType categorizes a BroadcastEvent for client-side filtering.
type EventType string

const (
	EventState     EventType = "state"
	EventOutput    EventType = "output"
	EventExecution EventType = "event"
)

// BroadcastEvent is one message fanned out to subscribed WebSocket
// clients.
type BroadcastEvent struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"sessionId"`
	Data      map[string]any `json:"data"`
}

// Subscription filters the event stream a single client receives.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans out VM session events to any number of subscribed
// WebSocket clients without letting a slow client stall the others.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster starts the broadcaster's dispatch goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new client filter; sessionID empty matches
// every session, eventTypes empty matches every event type.
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	types := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}
	sub := &Subscription{SessionID: sessionID, EventTypes: types, Channel: make(chan BroadcastEvent, 64)}
	b.register <- sub
	return sub
}

// Unsubscribe removes and closes a subscription.
func (b *Broadcaster) Unsubscribe(sub *Subscription) { b.unregister <- sub }

// Broadcast queues event for delivery, dropping it if the broadcaster
// is backed up rather than blocking the caller.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastState announces a session's VM state transition.
func (b *Broadcaster) BroadcastState(sessionID string, data map[string]any) {
	b.Broadcast(BroadcastEvent{Type: EventState, SessionID: sessionID, Data: data})
}

// BroadcastOutput forwards trace/console text produced during execution.
func (b *Broadcaster) BroadcastOutput(sessionID, stream, content string) {
	b.Broadcast(BroadcastEvent{Type: EventOutput, SessionID: sessionID, Data: map[string]any{
		"stream": stream, "content": content,
	}})
}

// BroadcastExecutionEvent reports a breakpoint hit, halt, or error.
func (b *Broadcaster) BroadcastExecutionEvent(sessionID, name string, details map[string]any) {
	data := map[string]any{"event": name}
	for k, v := range details {
		data[k] = v
	}
	b.Broadcast(BroadcastEvent{Type: EventExecution, SessionID: sessionID, Data: data})
}

// Close stops the dispatch goroutine and disconnects every client.
func (b *Broadcaster) Close() { close(b.done) }

// SubscriptionCount reports the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
