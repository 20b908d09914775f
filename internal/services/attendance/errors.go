package attendance

// EngineError is a custom error type for attendance engine errors
type EngineError string

// Error implements the error interface
func (e EngineError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig        EngineError = "config cannot be nil"
	ErrNilSnapshotRepo  EngineError = "snapshot repository cannot be nil"
	ErrNilBroadcaster   EngineError = "broadcaster cannot be nil"
	ErrNilInput         EngineError = "input cannot be nil"
	ErrMissingUser      EngineError = "event is missing a user"
	ErrMissingChannel   EngineError = "event is missing a channel"
	ErrMissingTime      EngineError = "event is missing a timestamp"
	ErrUnknownEventType EngineError = "unknown event type"
)
