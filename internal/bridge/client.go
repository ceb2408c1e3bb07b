// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bridge maintains the persistent WebSocket connection to the
// upstream ASR engine and turns its messages into transcript fragments.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edsonmartins/voxvault/internal/constants"
	"github.com/edsonmartins/voxvault/internal/transcript"
)

// Client connects to the ASR engine with a bounded number of retries.
// Once the attempts are exhausted it marks itself disconnected and stays
// quiet; the rest of the pipeline keeps running without live input.
type Client struct {
	url        string
	retryDelay time.Duration
	maxTries   int

	mu        sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool

	fragments chan transcript.Fragment
	logger    *slog.Logger
}

func NewClient(url string) *Client {
	return &Client{
		url:        url,
		retryDelay: constants.BridgeRetryDelay,
		maxTries:   constants.BridgeMaxConnectTries,
		fragments:  make(chan transcript.Fragment, constants.FragmentQueueSize),
		logger:     slog.With("component", "asr_bridge"),
	}
}

// Fragments returns the channel carrying decoded upstream fragments.
func (c *Client) Fragments() <-chan transcript.Fragment {
	return c.fragments
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run dials the engine, retrying with a fixed delay, then reads until the
// connection drops or ctx is cancelled. Intended to run as a goroutine.
func (c *Client) Run(ctx context.Context) {
	if !c.connect(ctx) {
		return
	}
	c.readLoop(ctx)
}

func (c *Client) connect(ctx context.Context) bool {
	dialer := websocket.Dialer{HandshakeTimeout: constants.BridgeDialTimeout}

	for attempt := 1; attempt <= c.maxTries; attempt++ {
		conn, _, err := dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
			c.connected.Store(true)
			c.logger.Info("connected to ASR engine", "url", c.url)
			return true
		}

		if attempt < c.maxTries {
			c.logger.Info("ASR engine not ready, retrying",
				"attempt", attempt,
				"max_attempts", c.maxTries,
				"retry_delay", c.retryDelay,
			)
			select {
			case <-ctx.Done():
				return false
			case <-time.After(c.retryDelay):
			}
			continue
		}
		c.logger.Warn("could not connect to ASR engine, giving up",
			"attempts", c.maxTries,
			"error", err,
		)
	}
	c.connected.Store(false)
	return false
}

func (c *Client) readLoop(ctx context.Context) {
	defer c.connected.Store(false)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn := c.currentConn()
		if conn == nil {
			return
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Info("ASR connection closed", "error", err)
			}
			return
		}

		var frag transcript.Fragment
		if err := json.Unmarshal(raw, &frag); err != nil {
			c.logger.Error("malformed message from ASR engine", "error", err)
			continue
		}
		if frag.Type == transcript.FragmentError {
			c.logger.Error("ASR engine reported error", "text", frag.Text)
		}

		select {
		case c.fragments <- frag:
		default:
			c.logger.Warn("fragment queue full, dropping")
		}
	}
}

func (c *Client) currentConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Close tears the connection down and marks the client disconnected.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected.Store(false)
	c.logger.Info("disconnected from ASR engine")
}
