// Package mocks provides shared test doubles for the store, service and
// events interfaces.
//
// Store and service mocks are built on testify/mock:
//
//	users := new(mocks.UserStore)
//	users.On("GetByID", mock.Anything, id).Return(user, nil)
//
// EventEmitter records what was published so tests can assert on event types.
package mocks
