package ports

import "time"

// Metrics receives domain events worth counting. Implementations must be safe
// for concurrent use.
type Metrics interface {
	PollCreated()
	PollRejected(reason string)
	ResponseAccepted()
	ResponseRejected(reason string)
	ResultsComputed(source string, responses int, elapsed time.Duration)
}
