package policy_test

import (
	"testing"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/policy"
	"github.com/stretchr/testify/assert"
)

func TestCan_Admin(t *testing.T) {
	entities := []policy.EntityKind{
		policy.EntityJob, policy.EntityCustomer, policy.EntityAppointment,
		policy.EntityQuotation, policy.EntityPayment, policy.EntityExpense,
		policy.EntityDailyReport, policy.EntityAttachment, policy.EntityChecklist,
		policy.EntityDashboard,
	}
	actions := []policy.Action{
		policy.ActionRead, policy.ActionCreate, policy.ActionUpdate,
		policy.ActionDelete, policy.ActionTransition,
	}
	for _, e := range entities {
		for _, a := range actions {
			assert.True(t, policy.Can(domain.RoleAdmin, a, e), "admin %s %s", a, e)
		}
	}
}

func TestCan_Foreman(t *testing.T) {
	t.Run("writes on-site artifacts", func(t *testing.T) {
		assert.True(t, policy.Can(domain.RoleForeman, policy.ActionCreate, policy.EntityDailyReport))
		assert.True(t, policy.Can(domain.RoleForeman, policy.ActionCreate, policy.EntityExpense))
		assert.True(t, policy.Can(domain.RoleForeman, policy.ActionCreate, policy.EntityAttachment))
		assert.True(t, policy.Can(domain.RoleForeman, policy.ActionUpdate, policy.EntityChecklist))
		assert.True(t, policy.Can(domain.RoleForeman, policy.ActionDelete, policy.EntityAttachment))
	})

	t.Run("reads jobs but never moves them", func(t *testing.T) {
		assert.True(t, policy.Can(domain.RoleForeman, policy.ActionRead, policy.EntityJob))
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionTransition, policy.EntityJob))
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionUpdate, policy.EntityJob))
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionDelete, policy.EntityJob))
	})

	t.Run("no money operations", func(t *testing.T) {
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionRead, policy.EntityQuotation))
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionUpdate, policy.EntityQuotation))
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionRead, policy.EntityPayment))
		assert.False(t, policy.Can(domain.RoleForeman, policy.ActionCreate, policy.EntityPayment))
	})
}

func TestCan_Owner(t *testing.T) {
	t.Run("read-only overview", func(t *testing.T) {
		assert.True(t, policy.Can(domain.RoleOwner, policy.ActionRead, policy.EntityJob))
		assert.True(t, policy.Can(domain.RoleOwner, policy.ActionRead, policy.EntityQuotation))
		assert.True(t, policy.Can(domain.RoleOwner, policy.ActionRead, policy.EntityPayment))
		assert.True(t, policy.Can(domain.RoleOwner, policy.ActionRead, policy.EntityDashboard))
	})

	t.Run("never writes", func(t *testing.T) {
		assert.False(t, policy.Can(domain.RoleOwner, policy.ActionCreate, policy.EntityJob))
		assert.False(t, policy.Can(domain.RoleOwner, policy.ActionUpdate, policy.EntityQuotation))
		assert.False(t, policy.Can(domain.RoleOwner, policy.ActionTransition, policy.EntityJob))
		assert.False(t, policy.Can(domain.RoleOwner, policy.ActionDelete, policy.EntityCustomer))
	})
}

func TestCan_UnknownRole(t *testing.T) {
	assert.False(t, policy.Can(domain.Role("guest"), policy.ActionRead, policy.EntityJob))
	assert.False(t, policy.Can(domain.Role(""), policy.ActionRead, policy.EntityJob))
}
