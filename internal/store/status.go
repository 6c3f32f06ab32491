package store

type Status string

const (
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCanceled   Status = "CANCELED"
)

// validNext models the fulfillment flow; CANCELED is reachable from any
// non-terminal status and is itself terminal (the order stays readable).
var validNext = map[Status]map[Status]bool{
	StatusConfirmed:  {StatusProcessing: true, StatusCanceled: true},
	StatusProcessing: {StatusShipped: true, StatusCanceled: true},
	StatusShipped:    {StatusDelivered: true, StatusCanceled: true},
	StatusDelivered:  {},
	StatusCanceled:   {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled:
		return st, true
	}
	return "", false
}
