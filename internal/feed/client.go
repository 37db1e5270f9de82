package feed

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/models"
)

// Client is one live feed subscriber. The hub only needs to know who is
// watching and where to send events.
type Client interface {
	// GetClientID identifies this connection; one user may hold several.
	GetClientID() string
	// GetViewer is the role and identity events are filtered for.
	GetViewer() analysis.Viewer
	// GetSendChannel is written to by the hub only.
	GetSendChannel() chan<- models.ComplaintEvent

	Run()
	// Close stops the client. It must be safe to call more than once.
	Close()
}
