// Package mocks provides test doubles for the gcal client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	gcal "github.com/rendetalje/lead-cli/pkg/gcal"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// ListEvents provides a mock function with given fields: ctx, req
func (_m *MockClient) ListEvents(ctx context.Context, req gcal.ListEventsRequest) (*gcal.ListEventsResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for ListEvents")
	}

	if rf, ok := ret.Get(0).(func(context.Context, gcal.ListEventsRequest) (*gcal.ListEventsResponse, error)); ok {
		return rf(ctx, req)
	}
	var r0 *gcal.ListEventsResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*gcal.ListEventsResponse)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient with expectations
// asserted on cleanup.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
