// go-tlbrr
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-tlbrr.
//
// go-tlbrr is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-tlbrr is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-tlbrr; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package mqtt publishes received frames to an MQTT broker
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/multierr"

	tlbrr "github.com/ZaparooProject/go-tlbrr"
	"github.com/ZaparooProject/go-tlbrr/internal/retry"
)

// FrameTopic is appended to the topic prefix for raw frames
const FrameTopic = "frame"

const (
	defaultTimeout = 5 * time.Second
	// Milliseconds paho waits for in-flight work on disconnect
	disconnectQuiesce = 250
)

// ErrTimeout is returned when the broker does not acknowledge in time
var ErrTimeout = errors.New("mqtt operation timed out")

// Client is the part of paho.Client the forwarder uses
type Client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Config describes the broker connection and publish settings
type Config struct {
	// BrokerURL is mqtt://[user:pass@]host:port/topic/prefix?client-id=id
	BrokerURL string
	Timeout   time.Duration
	// ConnectRetries is how many more times Dial tries to reach the broker
	ConnectRetries int
	RetryDelay     time.Duration
	QoS            byte
	Retain         bool
}

// DefaultConfig returns QoS 0, no retain, a five second timeout and three
// connect retries one second apart
func DefaultConfig() *Config {
	return &Config{
		Timeout:        defaultTimeout,
		ConnectRetries: 3,
		RetryDelay:     time.Second,
	}
}

// Forwarder publishes each frame's 18 raw bytes to <prefix>frame
type Forwarder struct {
	client  Client
	topic   string
	timeout time.Duration
	qos     byte
	retain  bool
}

// ClientOptionsFromURL creates paho client options and the topic prefix from
// a broker URL. The prefix is the URL path without the leading slash, with a
// trailing slash added when not empty.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid broker url: %w", err)
	}
	if u.Host == "" {
		return nil, "", fmt.Errorf("invalid broker url %q: missing host", serverURL)
	}

	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")
	if topicPrefix != "" && !strings.HasSuffix(topicPrefix, "/") {
		topicPrefix += "/"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// Dial connects to the broker named in cfg
func Dial(cfg *Config) (*Forwarder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	opts, prefix, err := ClientOptionsFromURL(cfg.BrokerURL)
	if err != nil {
		return nil, err
	}

	f := NewWithClient(paho.NewClient(opts), prefix, cfg)
	if err := f.connectWithRetry(cfg.ConnectRetries, cfg.RetryDelay); err != nil {
		return nil, err
	}
	return f, nil
}

// NewWithClient creates a forwarder on an existing client. The client is not
// connected.
func NewWithClient(client Client, topicPrefix string, cfg *Config) *Forwarder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Forwarder{
		client:  client,
		topic:   topicPrefix + FrameTopic,
		timeout: timeout,
		qos:     cfg.QoS,
		retain:  cfg.Retain,
	}
}

// Topic returns the topic frames are published to
func (f *Forwarder) Topic() string {
	return f.topic
}

// Forward implements forward.Forwarder
func (f *Forwarder) Forward(ctx context.Context, frame tlbrr.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := make([]byte, len(frame))
	copy(payload, frame[:])

	token := f.client.Publish(f.topic, f.qos, f.retain, payload)
	if err := f.wait(ctx, token); err != nil {
		return fmt.Errorf("publish to %s failed: %w", f.topic, err)
	}
	return nil
}

// Close implements forward.Forwarder
func (f *Forwarder) Close() error {
	f.client.Disconnect(disconnectQuiesce)
	return nil
}

func (f *Forwarder) connectWithRetry(retries int, delay time.Duration) error {
	var lastErr error
	_, err := retry.WithRetry(retry.Config{
		Description: "mqtt connect",
		MaxRetries:  retries,
		RetryDelay:  delay,
	}, func() (struct{}, bool, error) {
		lastErr = f.connect()
		return struct{}{}, lastErr != nil, nil
	})
	if err != nil {
		return multierr.Append(err, lastErr)
	}
	return nil
}

func (f *Forwarder) connect() error {
	if err := f.wait(context.Background(), f.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	return nil
}

// wait blocks until the token completes, the timeout passes or the context
// deadline is reached, whichever is first
func (f *Forwarder) wait(ctx context.Context, token paho.Token) error {
	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 || !token.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return token.Error()
}
