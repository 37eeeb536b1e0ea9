package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the ledger service over an existing connection
type Client struct {
	conn  grpc.ClientConnInterface
	token string
}

// NewClient creates a client that sends token as the authorization header
func NewClient(conn grpc.ClientConnInterface, token string) *Client {
	return &Client{conn: conn, token: token}
}

// Call invokes method with fields as the request body
func (c *Client) Call(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", c.token)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+LedgerServiceName+"/"+method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
