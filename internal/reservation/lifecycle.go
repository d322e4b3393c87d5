package reservation

import "resort-booking/internal/data/entity"

// Action is a lifecycle event applied to a room or facility booking.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionView    Action = "view"
)

var transitions = map[entity.BookingStatus]map[Action]entity.BookingStatus{
	entity.BookingStatusPending: {
		ActionConfirm: entity.BookingStatusConfirmed,
		ActionCancel:  entity.BookingStatusCancelled,
	},
	entity.BookingStatusConfirmed: {
		ActionCancel: entity.BookingStatusCancelled,
	},
	entity.BookingStatusCancelled: {},
}

// Transition returns the status reached by applying action to from.
func Transition(from entity.BookingStatus, action Action) (entity.BookingStatus, error) {
	next, ok := transitions[from][action]
	if !ok {
		return from, &InvalidTransitionError{From: from, Action: action}
	}
	return next, nil
}

func Confirm(from entity.BookingStatus) (entity.BookingStatus, error) {
	return Transition(from, ActionConfirm)
}

func Cancel(from entity.BookingStatus) (entity.BookingStatus, error) {
	return Transition(from, ActionCancel)
}

// IsActive reports whether a booking in this status still holds its slot.
func IsActive(status entity.BookingStatus) bool {
	for _, active := range entity.ActiveBookingStatuses {
		if status == active {
			return true
		}
	}
	return false
}

func IsTerminal(status entity.BookingStatus) bool {
	known, ok := transitions[status]
	return ok && len(known) == 0
}
