package main

import (
	"fmt"
	"io"

	"onnxcut/internal/core/subgraph"
	"onnxcut/internal/service"
)

// progressBuffer holds more events than one edit or summary publishes
const progressBuffer = 256

// progress queues stage events from a service and prints them on Flush.
// A nil progress publishes nothing and prints nothing.
type progress struct {
	bus    *service.EventBus
	events chan service.Event
	w      io.Writer
}

func newProgress(w io.Writer) *progress {
	p := &progress{
		bus:    service.NewEventBus(),
		events: make(chan service.Event, progressBuffer),
		w:      w,
	}
	p.bus.Subscribe(p.events)
	return p
}

// Bus returns the bus to hand to a service
func (p *progress) Bus() *service.EventBus {
	if p == nil {
		return nil
	}
	return p.bus
}

// Flush prints every queued event
func (p *progress) Flush() {
	if p == nil {
		return
	}
	for {
		select {
		case e := <-p.events:
			fmt.Fprintf(p.w, "progress: %s\n", describeEvent(e))
		default:
			return
		}
	}
}

func describeEvent(e service.Event) string {
	switch e.Type {
	case service.EventModelLoaded:
		if m, ok := e.Payload.(map[string]any); ok {
			return fmt.Sprintf("loaded %v (%v nodes)", m["path"], m["nodes"])
		}
	case service.EventChecked:
		if m, ok := e.Payload.(map[string]any); ok {
			return fmt.Sprintf("checked %v edit (%v issues)", m["stage"], m["issues"])
		}
	case service.EventNodesNamed:
		return fmt.Sprintf("named %v unnamed nodes", e.Payload)
	case service.EventExtracted:
		if r, ok := e.Payload.(*subgraph.Report); ok {
			return fmt.Sprintf("extracted %d nodes, %d initializers", r.NodeCount, r.InitializerCount)
		}
	case service.EventModelSaved:
		return fmt.Sprintf("saved %v", e.Payload)
	case service.EventRunRecorded:
		return fmt.Sprintf("recorded run %v", e.Payload)
	case service.EventBodyExtracted:
		return fmt.Sprintf("wrote loop body %v", e.Payload)
	}
	return string(e.Type)
}
