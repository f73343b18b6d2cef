package models

import (
	"errors"
	"strings"
	"time"
)

// AdhesionStatus is the admission decision recorded on an adhesion.
type AdhesionStatus string

const (
	StatusPending  AdhesionStatus = "PENDING"
	StatusApproved AdhesionStatus = "APPROVED"
	StatusRejected AdhesionStatus = "REJECTED"
)

// Valid reports whether s is one of the three legal statuses.
func (s AdhesionStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Adhesion is the onboarding record linking a company to an admission decision.
// It owns a reference to exactly one Company, set at construction. State
// transitions never mutate an Adhesion in place; Approve and Reject return a
// new value sharing the unchanged company reference, so instances are safe to
// share across readers.
type Adhesion struct {
	id           string
	company      Company
	adhesionDate time.Time
	status       AdhesionStatus
}

// NewAdhesion builds and validates an adhesion. A zero adhesionDate defaults to
// the current time; an empty status defaults to PENDING.
func NewAdhesion(id string, company Company, adhesionDate time.Time, status AdhesionStatus) (*Adhesion, error) {
	if status == "" {
		status = StatusPending
	}
	switch {
	case strings.TrimSpace(id) == "":
		return nil, errors.New("Adhesion ID is required")
	case company == nil:
		return nil, errors.New("Company is required for adhesion")
	case !status.Valid():
		return nil, errors.New("Invalid adhesion status")
	}
	if adhesionDate.IsZero() {
		adhesionDate = time.Now()
	}
	return &Adhesion{
		id:           id,
		company:      company,
		adhesionDate: adhesionDate,
		status:       status,
	}, nil
}

func (a *Adhesion) ID() string              { return a.id }
func (a *Adhesion) Company() Company        { return a.company }
func (a *Adhesion) AdhesionDate() time.Time { return a.adhesionDate }
func (a *Adhesion) Status() AdhesionStatus  { return a.status }

// Approve returns a copy of the adhesion with status APPROVED. It is legal from
// any status; no terminal state is enforced.
func (a *Adhesion) Approve() *Adhesion {
	return &Adhesion{id: a.id, company: a.company, adhesionDate: a.adhesionDate, status: StatusApproved}
}

// Reject returns a copy of the adhesion with status REJECTED.
func (a *Adhesion) Reject() *Adhesion {
	return &Adhesion{id: a.id, company: a.company, adhesionDate: a.adhesionDate, status: StatusRejected}
}

// JSON returns the serialization view, nesting the company's own view.
func (a *Adhesion) JSON() map[string]interface{} {
	return map[string]interface{}{
		"id":           a.id,
		"company":      a.company.JSON(),
		"adhesionDate": a.adhesionDate,
		"status":       string(a.status),
	}
}
