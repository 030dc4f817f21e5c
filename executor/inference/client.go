// Package inference talks to the remote BlokusModel service. The Batcher is
// the piece every search goes through: it multiplexes leaf evaluations from
// all concurrent games into bounded batches so the model sees large Predict
// calls without any single search waiting unbounded time.
package inference

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	modelpb "blokuszero/gen/go"
)

// Client wraps the BlokusModel gRPC stub.
type Client struct {
	conn  *grpc.ClientConn
	model modelpb.BlokusModelClient
}

// Dial connects to the model server. The connection is non-blocking; actual
// reachability surfaces on the first call and through the Batcher's poller.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial model server %s: %w", target, err)
	}
	return &Client{conn: conn, model: modelpb.NewBlokusModelClient(conn)}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Predict evaluates a batch of encoded states, preserving order.
func (c *Client) Predict(ctx context.Context, states []*modelpb.StateRepresentation) ([]*modelpb.Prediction, error) {
	resp, err := c.model.Predict(ctx, &modelpb.PredictRequest{States: states})
	if err != nil {
		return nil, err
	}
	preds := resp.GetPredictions()
	if len(preds) != len(states) {
		return nil, fmt.Errorf("model returned %d predictions for %d states", len(preds), len(states))
	}
	return preds, nil
}

// Check probes the server and returns the current training round.
func (c *Client) Check(ctx context.Context) (int32, error) {
	st, err := c.model.Check(ctx, &modelpb.Empty{})
	if err != nil {
		return 0, err
	}
	return st.GetCode(), nil
}

// Save pushes a completed trajectory into the server-side replay buffer.
func (c *Client) Save(ctx context.Context, rec *modelpb.GameRecord) error {
	_, err := c.model.Save(ctx, rec)
	return err
}
