package service

import (
	"sync"

	"github.com/google/uuid"
)

// Client is the connection handle the registry and dispatcher work with.
// It owns a bounded outbound queue drained by the transport's write pump;
// the relay core never writes to the socket directly.
type Client struct {
	ID string

	send      chan []interface{}
	closed    chan struct{}
	closeOnce sync.Once
}

func NewClient(queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Client{
		ID:     uuid.NewString(),
		send:   make(chan []interface{}, queueSize),
		closed: make(chan struct{}),
	}
}

// Enqueue offers a message to the client's outbound queue without ever
// blocking. It reports false when the client is gone or its queue is full;
// the caller decides whether that is worth logging.
func (c *Client) Enqueue(msg []interface{}) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.closed:
		return false
	default:
		return false
	}
}

// Outbound is drained by exactly one write pump.
func (c *Client) Outbound() <-chan []interface{} {
	return c.send
}

// Close marks the client gone. Safe to call more than once; queued
// messages that were never written are discarded with the channel.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// Done is closed when the client has been shut down.
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// IsClosed reports whether Close has been called.
func (c *Client) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
