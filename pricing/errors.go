package pricing

import "fmt"

// ServiceError wraps a transport-level failure talking to the pricing
// service. The core never retries these; any retry policy belongs to the
// collaborator owning the service.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("pricing service: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a lookup that succeeded at the transport level but
// matched zero items. Kept distinct from ServiceError so callers can tell
// "nothing priced under that name" apart from "the service is unreachable".
type NotFoundError struct {
	ServiceName string
	Region      string
	Currency    string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no pricing found for service %q", e.ServiceName)
	if e.Region != "" {
		msg += fmt.Sprintf(" in region %q", e.Region)
	}
	if e.Currency != "" {
		msg += fmt.Sprintf(" in currency %q", e.Currency)
	}
	return msg
}
