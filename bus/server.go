/*
 * MIT License
 *
 * Copyright (c) 2026 perfcore authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package bus

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	natsrv "github.com/nats-io/nats-server/v2/server"
)

// Server wraps an embedded, in-process NATS server. Nothing it multiplexes
// ever touches a real network socket: Connect dials it directly through
// nats.InProcessServer, so startup never races a TCP listener.
type Server struct {
	mu  sync.Mutex
	srv *natsrv.Server
}

// NewServer builds an embedded server from opts. A nil opts uses defaults
// with no client listener (Port: server.DEFAULT_PORT is left unset so only
// in-process connections are possible unless the caller configures a host).
func NewServer(opts *natsrv.Options) (*Server, error) {
	if opts == nil {
		opts = &natsrv.Options{DontListen: true}
	}

	ns, err := natsrv.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("bus: create embedded server: %w", err)
	}

	return &Server{srv: ns}, nil
}

// Start runs the server's accept loop in the background and blocks until it
// is ready for connections or timeout elapses.
func (s *Server) Start(timeout time.Duration) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	go srv.Start()

	if !srv.ReadyForConnections(timeout) {
		return fmt.Errorf("bus: embedded server did not become ready within %s", timeout)
	}
	return nil
}

// Shutdown stops the server and waits for it to fully drain.
func (s *Server) Shutdown() {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	srv.Shutdown()
	srv.WaitForShutdown()
}

// Connect dials the embedded server in-process, bypassing any network
// listener entirely.
func (s *Server) Connect(opts ...nats.Option) (*nats.Conn, error) {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	all := append([]nats.Option{nats.InProcessServer(srv)}, opts...)
	nc, err := nats.Connect(srv.ClientURL(), all...)
	if err != nil {
		return nil, fmt.Errorf("bus: connect in-process: %w", err)
	}
	return nc, nil
}
