package feed_test

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/models"
	"sync/atomic"
)

type MockClient struct {
	id          string
	viewer      analysis.Viewer
	RecvChannel chan models.ComplaintEvent
	closed      atomic.Bool
}

func newMockClient(id string, viewer analysis.Viewer, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		viewer:      viewer,
		RecvChannel: make(chan models.ComplaintEvent, buffer),
	}
}

func (c *MockClient) GetClientID() string        { return c.id }
func (c *MockClient) GetViewer() analysis.Viewer { return c.viewer }

func (c *MockClient) GetSendChannel() chan<- models.ComplaintEvent { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed.Store(true)
}
