// Package ports defines interfaces between layers in the hexagonal architecture.
// Repository, unit-of-work, event-bus and hasher ports are implemented by
// outbound adapters and called by the application layer. Service ports are
// implemented by the application layer and called by the CLI.
package ports
