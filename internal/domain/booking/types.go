package booking

import (
	"strings"

	"service-booking/internal/pkg/errs"
)

var ErrUnknownStatus = errs.NewKind("unknown booking status", errs.ErrInvalidStatus)

type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the whole lifecycle graph; anything absent is rejected.
// CREATED -> ASSIGNED is missing on purpose: only MarkPaid and Assign make
// that move.
var transitions = map[Status][]Status{
	StatusCreated:    {StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrUnknownStatus
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func AllStatuses() []Status {
	return []Status{StatusCreated, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled}
}
