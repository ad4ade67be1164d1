package sse

import (
	"github.com/ppldoc/superadmin-console/internal/events"
)

// HubNotifier forwards bus events to connected browsers.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// Attach subscribes the notifier to bus and returns the unsubscribe func.
func (n *HubNotifier) Attach(bus *events.Bus) func() {
	return bus.Subscribe(n.Handle)
}

// Handle broadcasts ev when anyone is listening.
func (n *HubNotifier) Handle(ev events.ResourceChanged) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(ev)
}
