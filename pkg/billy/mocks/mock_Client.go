// Package mocks provides test doubles for the billy client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	billy "github.com/rendetalje/lead-cli/pkg/billy"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// ListContacts provides a mock function with given fields: ctx, req
func (_m *MockClient) ListContacts(ctx context.Context, req billy.ListContactsRequest) (*billy.ListContactsResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for ListContacts")
	}

	if rf, ok := ret.Get(0).(func(context.Context, billy.ListContactsRequest) (*billy.ListContactsResponse, error)); ok {
		return rf(ctx, req)
	}
	var r0 *billy.ListContactsResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*billy.ListContactsResponse)
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
