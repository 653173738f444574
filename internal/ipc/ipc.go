// Package ipc carries popup to daemon control messages over a unix socket
// using JSON-RPC. Every request is answered with an acknowledgement only.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyfocus/internal/constants"
)

// ErrUnknownMessage is reported for message types the daemon does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// ErrRejected wraps a negative acknowledgement from the daemon.
var ErrRejected = errors.New("daemon rejected message")

type Message struct {
	ID   string                `json:"id"`
	Type constants.MessageType `json:"type"`
}

// NewMessage returns a message of type t with a fresh correlation id.
func NewMessage(t constants.MessageType) Message {
	return Message{ID: uuid.NewString(), Type: t}
}

type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Ack builds the response for err.
func Ack(err error) Response {
	if err != nil {
		return Response{OK: false, Error: err.Error()}
	}
	return Response{OK: true}
}

// Handler is implemented by the daemon.
type Handler interface {
	HandleMessage(ctx context.Context, msg Message) Response
	Clicked(ctx context.Context, id string) Response
}

// ClickRequest and Empty are exported because net/rpc only registers methods
// whose argument types are exported.
type ClickRequest struct {
	ID string `json:"id"`
}

type Empty struct{}

type rpcHandler struct {
	ctx context.Context
	h   Handler
}

func (s *rpcHandler) Send(req Message, resp *Response) error {
	*resp = s.h.HandleMessage(s.ctx, req)
	return nil
}

func (s *rpcHandler) Click(req ClickRequest, resp *Response) error {
	*resp = s.h.Clicked(s.ctx, req.ID)
	return nil
}

func (s *rpcHandler) Ping(_ Empty, _ *Empty) error {
	return nil
}

// Serve listens on socketPath until ctx is cancelled. A stale socket file is
// removed first.
func Serve(ctx context.Context, socketPath string, handler Handler) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create ipc dir: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale ipc socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod ipc socket: %w", err)
	}
	defer ln.Close()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName(constants.IPCServiceName, &rpcHandler{ctx: ctx, h: handler}); err != nil {
		return fmt.Errorf("register ipc handler: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

// Client talks to a daemon listening on SocketPath.
type Client struct {
	SocketPath string
	Timeout    time.Duration
}

func NewClient(socketPath string) *Client {
	return &Client{SocketPath: socketPath, Timeout: constants.IPCTimeout}
}

func (c *Client) dial(ctx context.Context) (*rpc.Client, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = constants.IPCTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "unix", c.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	return rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn)), nil
}

func (c *Client) call(ctx context.Context, method string, req any) (Response, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return Response{}, err
	}
	defer client.Close()

	var resp Response
	if err := client.Call(constants.IPCServiceName+"."+method, req, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Request sends a message and returns the daemon's acknowledgement as is.
func (c *Client) Request(ctx context.Context, msg Message) (Response, error) {
	return c.call(ctx, "Send", msg)
}

// Send sends a message of type t. A negative acknowledgement is returned as
// an error wrapping ErrRejected.
func (c *Client) Send(ctx context.Context, t constants.MessageType) error {
	msg := NewMessage(t)
	resp, err := c.Request(ctx, msg)
	if err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("%w: %s: %s", ErrRejected, t, resp.Error)
	}
	return nil
}

// Click reports a notification click to the daemon.
func (c *Client) Click(ctx context.Context, id string) error {
	resp, err := c.call(ctx, "Click", ClickRequest{ID: id})
	if err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("%w: click %s: %s", ErrRejected, id, resp.Error)
	}
	return nil
}

// Ping checks that a daemon is accepting connections.
func (c *Client) Ping(ctx context.Context) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Call(constants.IPCServiceName+".Ping", Empty{}, &Empty{})
}
