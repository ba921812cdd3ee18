package interfaces

// EventPublisher pushes domain events to an external broker. Publishing is
// best effort and never part of the ledger's atomic unit.
type EventPublisher interface {
	Publish(topic string, event any) error
}
