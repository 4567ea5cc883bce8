// Package events publishes and consumes change notifications for companies and
// employees over Kafka.
package events

import (
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/models"
	"github.com/google/uuid"
)

type EventType string

const (
	CompanyCreated    EventType = "company_created"
	CompanyUpdated    EventType = "company_updated"
	CompanyDeleted    EventType = "company_deleted"
	CompanyReconciled EventType = "company_reconciled"
	EmployeeCreated   EventType = "employee_created"
	EmployeeUpdated   EventType = "employee_updated"
	EmployeeDeleted   EventType = "employee_deleted"
)

// Event is the message body written to the topic. Exactly one of Company and
// Employee is set. PreviousCompanyID is set on employee_updated when the
// employee moved to another company.
type Event struct {
	Type              EventType        `json:"type"`
	Company           *models.Company  `json:"company,omitempty"`
	Employee          *models.Employee `json:"employee,omitempty"`
	PreviousCompanyID *uuid.UUID       `json:"previousCompanyId,omitempty"`
	OccurredAt        time.Time        `json:"occurredAt"`
}

func NewCompanyEvent(eventType EventType, company *models.Company) Event {
	return Event{Type: eventType, Company: company, OccurredAt: time.Now().UTC()}
}

func NewEmployeeEvent(eventType EventType, employee *models.Employee, previousCompanyID *uuid.UUID) Event {
	return Event{
		Type:              eventType,
		Employee:          employee,
		PreviousCompanyID: previousCompanyID,
		OccurredAt:        time.Now().UTC(),
	}
}

// Key is the message key: the id of the entity the event is about.
func (e Event) Key() string {
	switch {
	case e.Company != nil:
		return e.Company.ID.String()
	case e.Employee != nil:
		return e.Employee.ID.String()
	default:
		return ""
	}
}

// IsEmployeeEvent reports whether the event changes an employee.
func (e Event) IsEmployeeEvent() bool {
	switch e.Type {
	case EmployeeCreated, EmployeeUpdated, EmployeeDeleted:
		return true
	}
	return false
}

// CompanyIDs lists the companies whose employee count the event may affect.
func (e Event) CompanyIDs() []uuid.UUID {
	var ids []uuid.UUID
	if e.Company != nil {
		ids = append(ids, e.Company.ID)
	}
	if e.Employee != nil && e.Employee.CompanyID != uuid.Nil {
		ids = append(ids, e.Employee.CompanyID)
	}
	if e.PreviousCompanyID != nil && *e.PreviousCompanyID != uuid.Nil {
		ids = append(ids, *e.PreviousCompanyID)
	}
	return ids
}
