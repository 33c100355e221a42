// Package page holds the per-viewer context shared by the stream session and
// the command dispatcher: the bound camera and the way to open its channel.
package page

import (
	"context"

	"camctl/internal/channel"
)

// Channel is the live connection consumed by the stream session.
// *channel.Conn implements it.
type Channel interface {
	Events() <-chan channel.Event
	Emit(event string, payload any) error
	Close() error
}

// DialFunc opens a channel scoped to namespace.
type DialFunc func(ctx context.Context, namespace string) (Channel, error)

// Context is read-only after construction.
type Context struct {
	// CameraID is zero when the viewer is not bound to a camera.
	CameraID int
	Dial     DialFunc
}

func New(cameraID int, dial DialFunc) Context {
	return Context{CameraID: cameraID, Dial: dial}
}

// HasCamera reports whether a camera identifier was resolved. Camera ids are
// assigned from 1 by the server, so zero and negatives mean absent.
func (c Context) HasCamera() bool {
	return c.CameraID > 0
}

// SocketIO returns a DialFunc backed by the Socket.IO client.
func SocketIO(baseURL string, opts channel.Options) DialFunc {
	return func(ctx context.Context, namespace string) (Channel, error) {
		o := opts
		o.Namespace = namespace
		conn, err := channel.Dial(ctx, baseURL, o)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}
