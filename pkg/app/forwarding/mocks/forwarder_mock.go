package mocks

import (
	"context"
	"fmt"

	"github.com/rantcrypto/cmcgate/pkg/app/forwarding"
	"github.com/stretchr/testify/mock"
)

type Forwarder struct {
	mock.Mock
}

func (m *Forwarder) Forward(ctx context.Context, req forwarding.Request) (*forwarding.Response, error) {
	args := m.Called(ctx, req)
	resp, ok := args.Get(0).(*forwarding.Response)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *forwarding.Response, got %T", args.Get(0))
	}
	return resp, args.Error(1)
}
