package client

import (
	"context"
	"errors"

	"nakula/pkg/api"
	"nakula/pkg/core"
)

// UserStream manages the listen key of one API family's user data stream.
// The key stays valid for 60 minutes unless KeepAlive is called.
type UserStream struct {
	client   *Client
	endpoint api.Endpoint
}

func NewUserStream(c *Client, endpoint api.Endpoint) *UserStream {
	return &UserStream{client: c, endpoint: endpoint}
}

// Start creates a listen key, or returns the active one if it exists.
func (s *UserStream) Start(ctx context.Context) (string, error) {
	var lk core.ListenKey
	if err := s.client.PostKeyed(ctx, s.endpoint, nil, &lk); err != nil {
		return "", err
	}
	if lk.ListenKey == "" {
		return "", errors.New("empty listen key in response")
	}
	return lk.ListenKey, nil
}

// KeepAlive extends the validity of listenKey.
func (s *UserStream) KeepAlive(ctx context.Context, listenKey string) error {
	return s.client.PutKeyed(ctx, s.endpoint, listenKeyParams(listenKey), nil)
}

// Close invalidates listenKey.
func (s *UserStream) Close(ctx context.Context, listenKey string) error {
	return s.client.DeleteKeyed(ctx, s.endpoint, listenKeyParams(listenKey), nil)
}

func listenKeyParams(listenKey string) core.Params {
	return core.NewParams().SetOptional("listenKey", listenKey)
}
