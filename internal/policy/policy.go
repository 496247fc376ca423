// Package policy holds the role-based access table. It is the single
// source of truth for who may do what; handlers and services consult it
// before every mutation and before exposing derived actions.
package policy

import "github.com/sainam-co/jobtrack-api/internal/domain"

// Action is an operation a role may perform on an entity kind
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition"
)

// EntityKind names the entity classes the policy covers
type EntityKind string

const (
	EntityJob         EntityKind = "job"
	EntityCustomer    EntityKind = "customer"
	EntityAppointment EntityKind = "appointment"
	EntityQuotation   EntityKind = "quotation"
	EntityPayment     EntityKind = "payment"
	EntityExpense     EntityKind = "expense"
	EntityDailyReport EntityKind = "daily_report"
	EntityAttachment  EntityKind = "attachment"
	EntityChecklist   EntityKind = "checklist"
	EntityDashboard   EntityKind = "dashboard"
)

type grant struct {
	action Action
	entity EntityKind
}

// grants is the full access table. Anything not listed is denied.
var grants = map[domain.Role]map[grant]bool{
	domain.RoleAdmin:   adminGrants(),
	domain.RoleForeman: foremanGrants(),
	domain.RoleOwner:   ownerGrants(),
}

func adminGrants() map[grant]bool {
	g := make(map[grant]bool)
	entities := []EntityKind{
		EntityJob, EntityCustomer, EntityAppointment, EntityQuotation,
		EntityPayment, EntityExpense, EntityDailyReport, EntityAttachment,
		EntityChecklist, EntityDashboard,
	}
	actions := []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionTransition}
	for _, e := range entities {
		for _, a := range actions {
			g[grant{a, e}] = true
		}
	}
	return g
}

// Foreman writes only on-site artifacts: daily reports, expenses,
// attachments and the checklist. Never quotations, payments or status.
func foremanGrants() map[grant]bool {
	g := make(map[grant]bool)
	for _, e := range []EntityKind{
		EntityJob, EntityAppointment, EntityDailyReport, EntityExpense,
		EntityAttachment, EntityChecklist,
	} {
		g[grant{ActionRead, e}] = true
	}
	for _, e := range []EntityKind{EntityDailyReport, EntityExpense, EntityAttachment} {
		g[grant{ActionCreate, e}] = true
	}
	g[grant{ActionUpdate, EntityChecklist}] = true
	g[grant{ActionDelete, EntityAttachment}] = true
	return g
}

// Owner is read-only everywhere
func ownerGrants() map[grant]bool {
	g := make(map[grant]bool)
	for _, e := range []EntityKind{
		EntityJob, EntityCustomer, EntityQuotation, EntityPayment, EntityDashboard,
	} {
		g[grant{ActionRead, e}] = true
	}
	return g
}

// Can reports whether the role may perform the action on the entity
// kind. Pure lookup, deny-by-default.
func Can(role domain.Role, action Action, entity EntityKind) bool {
	table, ok := grants[role]
	if !ok {
		return false
	}
	return table[grant{action, entity}]
}
