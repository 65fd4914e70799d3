package lambdakernel

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/phayes/freeport"
)

// NewTestServer starts a server on a free local port with its proof store
// in dir, and connects a client to it.
func NewTestServer(config *Config, dir string) (*Server, *Client, error) {
	port, err := freeport.GetFreePort()
	if err != nil {
		return nil, nil, err
	}
	config.Host = "localhost"
	config.Port = port
	if config.DataFile != "" {
		config.DataFile = filepath.Join(dir, "test.data")
	}

	server, err := NewServer(config)
	if err != nil {
		return nil, nil, err
	}
	listening := make(chan struct{})
	go func() {
		close(listening)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	<-listening

	url := fmt.Sprintf("ws://localhost:%d/ws", port)
	var client *Client
	// The listener may not be up yet.
	for attempt := 0; attempt < 50; attempt++ {
		if client, err = NewClient(url); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		server.Close()
		return nil, nil, err
	}

	return server, client, nil
}

type testServerRef struct {
	server *Server
	client *Client
}

func (tsr *testServerRef) Close() {
	tsr.client.Close()
	tsr.server.Close()
}

// runTestServer starts a test server for the duration of t.
func runTestServer(t *testing.T, config *Config) *testServerRef {
	server, client, err := NewTestServer(config, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ref := &testServerRef{
		server: server,
		client: client,
	}
	t.Cleanup(ref.Close)
	return ref
}
