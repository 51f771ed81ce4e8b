package leads

import (
	"testing"

	"github.com/stretchr/testify/require"

	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

func newCustomerService(t *testing.T) (*CustomerService, *ledgerStub) {
	t.Helper()
	ledger := &ledgerStub{}
	return NewCustomerService(newTestDB(t), ledger), ledger
}

func validCustomerInput() CustomerInput {
	return CustomerInput{
		FirstName: "Mulu",
		LastName:  "Alemu",
		Email:     "mulu.alemu@example.com",
		Phone:     "+251 912 000 111",
	}
}

func TestCustomerCreate(t *testing.T) {
	svc, ledger := newCustomerService(t)

	_, err := svc.Create(models.Actor{}, validCustomerInput())
	require.True(t, errs.IsForbidden(err))

	c, err := svc.Create(agent, validCustomerInput())
	require.NoError(t, err)
	require.Equal(t, models.CustomerStatusActive, c.Status)
	require.Equal(t, agent.ID, c.AssignedTo)
	require.Equal(t, models.ActivityCustomerCreate, ledger.last(t).Type)
}

func TestCustomerCreateRejectsDuplicateContact(t *testing.T) {
	svc, _ := newCustomerService(t)

	_, err := svc.Create(agent, validCustomerInput())
	require.NoError(t, err)

	// Same email, different phone
	in := validCustomerInput()
	in.Phone = "+251 913 999 888"
	_, err = svc.Create(agent, in)
	require.True(t, errs.IsConflict(err))

	// Same phone, different email
	in = validCustomerInput()
	in.Email = "other.person@example.com"
	_, err = svc.Create(agent, in)
	require.True(t, errs.IsConflict(err))
}

func TestCustomerUpdate(t *testing.T) {
	svc, _ := newCustomerService(t)

	c, err := svc.Create(agent, validCustomerInput())
	require.NoError(t, err)

	bad := "nope"
	_, err = svc.Update(agent, c.ID, CustomerUpdateInput{Email: &bad})
	require.True(t, errs.IsValidation(err))

	status := "inactive"
	got, err := svc.Update(agent, c.ID, CustomerUpdateInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.CustomerStatusInactive, got.Status)
}

func TestCustomerUpdatePreferences(t *testing.T) {
	svc, _ := newCustomerService(t)

	c, err := svc.Create(agent, validCustomerInput())
	require.NoError(t, err)

	_, err = svc.UpdatePreferences(models.Actor{}, c.ID, models.SearchPreferences{})
	require.True(t, errs.IsForbidden(err))

	minPrice := 2_000_000.0
	got, err := svc.UpdatePreferences(agent, c.ID, models.SearchPreferences{
		PropertyType: "villa",
		MinPrice:     &minPrice,
	})
	require.NoError(t, err)
	require.Equal(t, "villa", got.Preferences.PropertyType)

	// A later partial update keeps the fields it does not touch
	maxPrice := 9_000_000.0
	got, err = svc.UpdatePreferences(agent, c.ID, models.SearchPreferences{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Equal(t, "villa", got.Preferences.PropertyType)
	require.Equal(t, minPrice, *got.Preferences.MinPrice)
	require.Equal(t, maxPrice, *got.Preferences.MaxPrice)
}

func TestCustomerListAndDelete(t *testing.T) {
	svc, _ := newCustomerService(t)

	c, err := svc.Create(agent, validCustomerInput())
	require.NoError(t, err)

	customers, total, err := svc.List(agent, database.CustomerFilters{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, c.ID, customers[0].ID)

	require.True(t, errs.IsForbidden(svc.Delete(agent, c.ID)))
	require.NoError(t, svc.Delete(admin, c.ID))

	_, err = svc.Get(agent, c.ID)
	require.True(t, errs.IsNotFound(err))
}
