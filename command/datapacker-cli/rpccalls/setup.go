// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/datapacker/fault"
)

const dialTimeout = 10 * time.Second

// Client - to hold RPC connections streams
//
// a broken connection is redialled on the next call
type Client struct {
	sync.Mutex

	connect string
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a datapackerd
func NewClient(connect string, verbose bool, handle io.Writer) (*Client, error) {
	c := &Client{
		connect: connect,
		verbose: verbose,
		handle:  handle,
	}
	_, err := c.dial()
	if nil != err {
		return nil, err
	}
	return c, nil
}

// Close - shutdown the datapackerd connection
func (c *Client) Close() {
	c.Lock()
	defer c.Unlock()
	if nil != c.client {
		_ = c.client.Close()
		c.client = nil
	}
}

func (c *Client) dial() (*rpc.Client, error) {
	c.Lock()
	defer c.Unlock()

	if nil != c.client {
		return c.client, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}
	dialer := &tls.Dialer{
		Config: tlsConfig,
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := dialer.DialContext(ctx, "tcp", c.connect)
	if nil != err {
		return nil, err
	}

	c.client = jsonrpc.NewClient(conn)
	return c.client, nil
}

// drop a connection that failed so the next call redials
func (c *Client) reset(client *rpc.Client) {
	c.Lock()
	defer c.Unlock()
	if c.client == client {
		_ = client.Close()
		c.client = nil
	}
}

// call - one request honouring ctx
//
// errors returned by the node come back as their fault values, anything
// else is a TransportFailure
func (c *Client) call(ctx context.Context, method string, arguments interface{}, reply interface{}) error {
	if err := ctx.Err(); nil != err {
		return err
	}

	client, err := c.dial()
	if nil != err {
		c.log("dial: %s  error: %s", c.connect, err)
		return fault.TransportFailure
	}

	c.printJson(method+" Request", arguments)

	call := client.Go(method, arguments, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		c.reset(client)
		return ctx.Err()
	case <-call.Done:
	}

	if nil != call.Error {
		if e, ok := call.Error.(rpc.ServerError); ok {
			return fault.Lookup(string(e))
		}
		c.log("%s  error: %s", method, call.Error)
		c.reset(client)
		return fault.TransportFailure
	}

	c.printJson(method+" Reply", reply)
	return nil
}

func (c *Client) log(format string, arguments ...interface{}) {
	if c.verbose {
		fmt.Fprintf(c.handle, format+"\n", arguments...)
	}
}
