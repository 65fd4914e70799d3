package lambdakernel

// this should pretty much be the same API as the service's Handle

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// ServerFuel asks the server to use its configured default fuel.
const ServerFuel = -1

type Client struct {
	URL string

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu struct {
		sync.Mutex
		nextRequestID int
		pending       map[int]chan *Response
		err           error
	}
	// ServerClosed is closed once the connection is gone.
	ServerClosed chan struct{}
}

func NewClient(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", url)
	}
	client := &Client{
		URL:          url,
		conn:         conn,
		ServerClosed: make(chan struct{}),
	}
	client.mu.pending = map[int]chan *Response{}
	go client.handleIncoming()
	return client, nil
}

func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.ServerClosed
	return err
}

func (c *Client) handleIncoming() {
	var readErr error
	for {
		resp := &Response{}
		if readErr = c.conn.ReadJSON(resp); readErr != nil {
			break
		}
		c.mu.Lock()
		respChan, ok := c.mu.pending[resp.ID]
		delete(c.mu.pending, resp.ID)
		c.mu.Unlock()
		if ok {
			respChan <- resp
		}
	}

	c.mu.Lock()
	c.mu.err = errors.Wrap(readErr, "connection closed")
	for id, respChan := range c.mu.pending {
		close(respChan)
		delete(c.mu.pending, id)
	}
	c.mu.Unlock()
	close(c.ServerClosed)
}

// Do sends req, overwriting its ID, and waits for the response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	respChan := make(chan *Response, 1)
	c.mu.Lock()
	if c.mu.err != nil {
		c.mu.Unlock()
		return nil, c.mu.err
	}
	req.ID = c.mu.nextRequestID
	c.mu.nextRequestID++
	c.mu.pending[req.ID] = respChan
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(req.ID)
		return nil, errors.Wrap(err, "sending request")
	}

	select {
	case resp, ok := <-respChan:
		if !ok {
			c.mu.Lock()
			defer c.mu.Unlock()
			return nil, c.mu.err
		}
		return resp, nil
	case <-ctx.Done():
		c.forget(req.ID)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mu.pending, id)
}

func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return resp, nil
}

func fuelRequest(fuel int) *int {
	if fuel == ServerFuel {
		return nil
	}
	return &fuel
}

func (c *Client) Normalize(ctx context.Context, src string, fuel int, full bool) (*NormalizeResult, error) {
	resp, err := c.do(ctx, &Request{Op: OpNormalize, Term: Src(src), Fuel: fuelRequest(fuel), Full: full})
	if err != nil {
		return nil, err
	}
	return resp.Normalize, nil
}

func (c *Client) Verify(ctx context.Context, a string, b string, fuel int) (*ProofResult, error) {
	resp, err := c.do(ctx, &Request{Op: OpVerify, A: Src(a), B: Src(b), Fuel: fuelRequest(fuel)})
	if err != nil {
		return nil, err
	}
	return resp.Verify, nil
}

func (c *Client) Alpha(ctx context.Context, a string, b string) (bool, error) {
	resp, err := c.do(ctx, &Request{Op: OpAlpha, A: Src(a), B: Src(b)})
	if err != nil {
		return false, err
	}
	return resp.Alpha.Equivalent, nil
}

func (c *Client) Check(ctx context.Context, src string, fuel int) (*CheckResult, error) {
	resp, err := c.do(ctx, &Request{Op: OpCheck, Term: Src(src), Fuel: fuelRequest(fuel)})
	if err != nil {
		return nil, err
	}
	return resp.Check, nil
}

func (c *Client) GetProof(ctx context.Context, id string) (*ProofResult, error) {
	resp, err := c.do(ctx, &Request{Op: OpGetProof, ProofID: id})
	if err != nil {
		return nil, err
	}
	return resp.Proof, nil
}

// Batch sends reqs as one batch; per-request failures are in the individual
// responses.
func (c *Client) Batch(ctx context.Context, reqs []*Request) ([]*Response, error) {
	resp, err := c.do(ctx, &Request{Op: OpBatch, Batch: reqs})
	if err != nil {
		return nil, err
	}
	return resp.Batch, nil
}
