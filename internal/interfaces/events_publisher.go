package interfaces

// EventPublisher pushes committed-transaction events to an external broker.
// Publishing is best effort; a failure never unwinds the mutation.
type EventPublisher interface {
	Publish(topic string, event any) error
}
