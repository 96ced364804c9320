package netclient

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client is a short-lived connection to a kvs server: one Client dials
// once and can carry several requests, matching the server's per-connection
// streaming decoder (internal/server).
type Client struct {
	conn net.Conn
	dec  *json.Decoder
}

// Dial opens a TCP connection to addr.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("netclient: dial %s: %w", addr, err)
	}
	return &Client{conn: conn, dec: json.NewDecoder(conn)}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) roundTrip(req Request) (Response, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("netclient: encode request: %w", err)
	}
	if _, err := c.conn.Write(encoded); err != nil {
		return Response{}, fmt.Errorf("netclient: write request: %w", err)
	}

	var resp Response
	if err := c.dec.Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("netclient: decode response: %w", err)
	}
	return resp, nil
}

// Set asks the server to store key=value.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(Request{Op: OpSet, Key: key, Value: value})
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// Get asks the server for key's value. found is false if the server has no
// live entry for key.
func (c *Client) Get(key string) (value string, found bool, err error) {
	resp, err := c.roundTrip(Request{Op: OpGet, Key: key})
	if err != nil {
		return "", false, err
	}
	if !resp.Ok {
		return "", false, fmt.Errorf("%s", resp.Error)
	}
	return resp.Value, resp.Found, nil
}

// Remove asks the server to delete key.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(Request{Op: OpRemove, Key: key})
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}
