// Package services holds the business rules: group allocation, joining, submission
// intake, status derivation and dashboards. Every operation receives the caller as an
// explicit models.Principal.
package services

import (
	"time"
)

// Clock returns the current instant. Services read time only through it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time { return time.Now().UTC() }

// EventPublisher pushes realtime notifications about an assignment
type EventPublisher interface {
	Publish(assignmentID int64, eventType string, payload interface{})
}

// Realtime event types
const (
	EventGroupJoined       = "group.joined"
	EventSubmissionCreated = "submission.created"
)

type noopPublisher struct{}

func (noopPublisher) Publish(int64, string, interface{}) {}

// NoopPublisher discards every event
var NoopPublisher EventPublisher = noopPublisher{}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

func publisherOrDefault(p EventPublisher) EventPublisher {
	if p == nil {
		return NoopPublisher
	}
	return p
}
