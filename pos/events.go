/*
events.go - Event list and the currently selected event

Events are created once and never edited or deleted. The selection is
persisted together with the list so the tool reopens on the event it
was closed on. The selection may be nil (fresh install, or nothing
picked yet); committing a sale requires one.
*/
package pos

import "context"

type Events struct {
	store    BlobStore
	events   []Event
	selected *EventID
}

func NewEvents(store BlobStore) *Events {
	return &Events{store: store}
}

// LoadEvents restores the event list and selection from the events
// blob. A missing blob yields an empty list and no selection.
func LoadEvents(ctx context.Context, store BlobStore) (*Events, error) {
	e := &Events{store: store}
	if store == nil {
		return e, nil
	}
	data, err := store.Get(ctx, BlobEvents)
	if err != nil {
		return e, err
	}
	events, selected, err := decodeEvents(data)
	if err != nil {
		return e, err
	}
	e.events = events
	e.selected = selected
	return e, nil
}

// Add appends a new event and persists.
func (e *Events) Add(ctx context.Context, ev Event) error {
	e.events = append(e.events, ev)
	return e.Save(ctx)
}

// All returns a copy of the event list in creation order.
func (e *Events) All() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// Get returns the first event with the given id.
func (e *Events) Get(id EventID) (Event, bool) {
	for _, ev := range e.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// Select makes the event with the given id current and persists.
// Unknown ids are a no-op.
func (e *Events) Select(ctx context.Context, id EventID) error {
	if _, ok := e.Get(id); !ok {
		return nil
	}
	e.selected = &id
	return e.Save(ctx)
}

// Selected returns the current event. ok is false when nothing is
// selected or the selection no longer resolves.
func (e *Events) Selected() (Event, bool) {
	if e.selected == nil {
		return Event{}, false
	}
	return e.Get(*e.selected)
}

// SelectedID returns a copy of the selection pointer, nil when none.
func (e *Events) SelectedID() *EventID {
	if e.selected == nil {
		return nil
	}
	id := *e.selected
	return &id
}

// Save persists the full events snapshot.
func (e *Events) Save(ctx context.Context) error {
	data, err := encodeEvents(e.events, e.selected)
	return putBlob(ctx, e.store, BlobEvents, data, err)
}
