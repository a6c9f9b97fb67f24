// Package service contains the application use cases. Services coordinate
// domain objects and stores (internal/store), set transaction boundaries and
// publish domain events after successful writes.
//
// Error handling follows one rule: expected conditions such as
// store.ErrUserNotFound or domain validation errors are returned unchanged so
// the API layer can map them to status codes, while anything unexpected is
// wrapped in a *ServiceError naming the failed operation.
package service
