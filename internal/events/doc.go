// Package events publishes domain events after successful state changes.
//
// Services emit events through the EventEmitter interface. In the running
// server an AsyncEmitter buffers them and a small worker pool hands each one
// to an InMemoryEventEmitter, which fans it out to the registered handlers
// such as AuditHandler. Workers resume the publishing request's trace ID, so
// handler logs stay correlated with the request that caused them.
package events
