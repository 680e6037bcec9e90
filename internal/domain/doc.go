// Package domain is the aggregate and authorization kernel. Aggregates live
// in sub-packages (workspace, project, task, availability, conversation,
// user, aiagent) built on the fsm, lifecycle, rbac, valueobject and event
// packages. This root package holds the typed domain error, its sentinels,
// and the Action interface used to stage writes.
package domain
