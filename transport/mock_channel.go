package transport

import (
	"github.com/arloliu/go-tabletae/aemsg"
	"github.com/stretchr/testify/mock"
)

// MockChannel is a testify mock implementing Channel, for tests of code built on the driver client.
type MockChannel struct {
	mock.Mock
}

var _ Channel = (*MockChannel)(nil)

func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

func (m *MockChannel) Send(msg *aemsg.Message, priority Priority, timeout Ticks) error {
	args := m.Called(msg, priority, timeout)
	return args.Error(0)
}

func (m *MockChannel) SendSync(msg *aemsg.Message, priority Priority, timeout Ticks) (*aemsg.Reply, error) {
	args := m.Called(msg, priority, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*aemsg.Reply), args.Error(1) //nolint:forcetypeassert
}
