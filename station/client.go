package station

import (
	"context"
)

// Client is the only way to talk to a running station. It holds no state of
// its own and can be shared by any number of goroutines.
type Client struct {
	requests chan<- request
	done     <-chan struct{}
}

func (c *Client) send(ctx context.Context, req request) error {
	// a stopped station must never accept work, even if the queue has room
	select {
	case <-c.done:
		return ErrStationUnreachable
	default:
	}

	select {
	case c.requests <- req:
		return nil
	case <-c.done:
		return ErrStationUnreachable
	case <-ctx.Done():
		return ctx.Err()
	}
}

// await waits for the single reply of a request. The station never closes
// reply channels, it drops them when it stops.
func await[T any](ctx context.Context, c *Client, reply <-chan T) (T, error) {
	var zero T

	select {
	case v := <-reply:
		return v, nil
	case <-c.done:
		// the reply may have been sent right before the station stopped
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrStationUnreachable
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Client) Scan(ctx context.Context) (*ScanResults, error) {
	reply := make(chan scanReply, 1)

	if err := c.send(ctx, scanRequest{reply: reply}); err != nil {
		return nil, err
	}

	r, err := await(ctx, c, reply)
	if err != nil {
		return nil, err
	}

	return r.results, r.err
}

func (c *Client) Networks(ctx context.Context) ([]NetworkResult, error) {
	reply := make(chan []NetworkResult, 1)

	if err := c.send(ctx, networksRequest{reply: reply}); err != nil {
		return nil, err
	}

	return await(ctx, c, reply)
}

// Status returns ErrStationUnreachable if the station could not be asked and
// a *LinkError if the station could not read the status from the link.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	reply := make(chan statusReply, 1)

	if err := c.send(ctx, statusRequest{reply: reply}); err != nil {
		return nil, err
	}

	r, err := await(ctx, c, reply)
	if err != nil {
		return nil, err
	}

	return r.status, r.err
}

func (c *Client) AddNetwork(ctx context.Context) (NetworkID, error) {
	reply := make(chan NetworkID, 1)

	if err := c.send(ctx, addNetworkRequest{reply: reply}); err != nil {
		return 0, err
	}

	return await(ctx, c, reply)
}

// SetNetworkPsk only reports whether the edit was queued.
func (c *Client) SetNetworkPsk(ctx context.Context, id NetworkID, psk string) error {
	return c.send(ctx, setNetworkRequest{
		id:   id,
		edit: networkEdit{kind: editPsk, value: psk},
	})
}

// SetNetworkSsid only reports whether the edit was queued.
func (c *Client) SetNetworkSsid(ctx context.Context, id NetworkID, ssid string) error {
	return c.send(ctx, setNetworkRequest{
		id:   id,
		edit: networkEdit{kind: editSsid, value: ssid},
	})
}

func (c *Client) SaveConfig(ctx context.Context) error {
	return c.send(ctx, saveConfigRequest{})
}

func (c *Client) RemoveNetwork(ctx context.Context, id NetworkID) error {
	return c.send(ctx, removeNetworkRequest{id: id})
}

// SelectNetwork returns once the selection resolved. A negative SelectResult
// is an answer of the station and comes with a nil error.
func (c *Client) SelectNetwork(ctx context.Context, id NetworkID) (SelectResult, error) {
	reply := make(chan SelectResult, 1)

	if err := c.send(ctx, selectNetworkRequest{id: id, reply: reply}); err != nil {
		return 0, err
	}

	return await(ctx, c, reply)
}

// Shutdown asks the station to stop. Requests queued behind it are dropped.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.send(ctx, shutdownRequest{})
}
