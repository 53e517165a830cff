// Package mocks provides test doubles for the gmail client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	gmail "github.com/rendetalje/lead-cli/pkg/gmail"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// ListThreads provides a mock function with given fields: ctx, req
func (_m *MockClient) ListThreads(ctx context.Context, req gmail.ListThreadsRequest) (*gmail.ListThreadsResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for ListThreads")
	}

	if rf, ok := ret.Get(0).(func(context.Context, gmail.ListThreadsRequest) (*gmail.ListThreadsResponse, error)); ok {
		return rf(ctx, req)
	}
	var r0 *gmail.ListThreadsResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*gmail.ListThreadsResponse)
	}
	return r0, ret.Error(1)
}

// GetThread provides a mock function with given fields: ctx, id
func (_m *MockClient) GetThread(ctx context.Context, id string) (*gmail.Thread, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetThread")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (*gmail.Thread, error)); ok {
		return rf(ctx, id)
	}
	var r0 *gmail.Thread
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*gmail.Thread)
	}
	return r0, ret.Error(1)
}

// ListLabels provides a mock function with given fields: ctx
func (_m *MockClient) ListLabels(ctx context.Context) ([]gmail.Label, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListLabels")
	}

	if rf, ok := ret.Get(0).(func(context.Context) ([]gmail.Label, error)); ok {
		return rf(ctx)
	}
	var r0 []gmail.Label
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]gmail.Label)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
