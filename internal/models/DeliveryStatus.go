package models

import "fmt"

// DeliveryStatus is the one-way progression of a customer's order.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pendiente"
	StatusEnRoute   DeliveryStatus = "en_ruta"
	StatusDelivered DeliveryStatus = "entregado"
)

// transitions lists, for each status, the statuses it may move to.
var transitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:   {StatusDelivered},
	StatusEnRoute:   {StatusDelivered},
	StatusDelivered: nil,
}

// ParseDeliveryStatus accepts only the stored values.
func ParseDeliveryStatus(raw string) (DeliveryStatus, error) {
	s := DeliveryStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown delivery status %q", raw)
	}
	return s, nil
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is accepted.
func (s DeliveryStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s DeliveryStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}
