package model

import "time"

// TreeEventType defines the kind of change a tree operation made.
type TreeEventType string

const (
	TreeEventCollectionDeleted TreeEventType = "collection.deleted"
	TreeEventDocumentCreated   TreeEventType = "document.created"
	TreeEventDocumentDeleted   TreeEventType = "document.deleted"
)

// TreeEvent describes one completed mutation so other parts of the host can
// invalidate or record it.
type TreeEvent struct {
	// ID is assigned by the event store; empty until stored
	ID   string        `json:"id,omitempty"`
	Type TreeEventType `json:"type"`
	// Link is the self link of the affected resource
	Link string `json:"link"`
	// CollectionLink is the collection the resource belongs to
	CollectionLink string    `json:"collectionLink"`
	ItemID         string    `json:"itemId"`
	Timestamp      time.Time `json:"timestamp"`
}
