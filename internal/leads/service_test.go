package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
)

type ledgerStub struct {
	events []activity.Event
}

func (l *ledgerStub) Record(ev activity.Event) {
	l.events = append(l.events, ev)
}

func (l *ledgerStub) last(t *testing.T) activity.Event {
	t.Helper()
	require.NotEmpty(t, l.events)
	return l.events[len(l.events)-1]
}

func newTestDB(t *testing.T) *database.GormDB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gdb := database.NewFromDB(db, "sqlite")
	require.NoError(t, gdb.InitSchema())
	return gdb
}

func newTestService(t *testing.T) (*Service, *ledgerStub) {
	t.Helper()
	ledger := &ledgerStub{}
	return NewService(newTestDB(t), ledger), ledger
}

var (
	admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin, Name: "Sara"}
	agent = models.Actor{ID: "agent-1", Role: models.RoleAgent, Name: "Abebe"}
	rival = models.Actor{ID: "agent-2", Role: models.RoleAgent, Name: "Kebede"}
)

func validCreateInput() CreateInput {
	return CreateInput{
		FirstName: "Hanna",
		LastName:  "Tesfaye",
		Email:     "hanna.tesfaye@example.com",
		Phone:     "+251 911 234 567",
		Message:   "Interested in the Bole apartment",
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, ledger := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{IPAddress: "10.0.0.1", Referrer: "https://example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, l.ID)
	require.Equal(t, models.LeadSourceWebsite, l.Source)
	require.Equal(t, models.LeadStatusNew, l.Status)
	require.Equal(t, models.LeadPriorityMedium, l.Priority)
	require.Equal(t, "10.0.0.1", l.IPAddress)

	ev := ledger.last(t)
	require.Equal(t, models.ActivityLeadCreated, ev.Type)
	require.Equal(t, l.ID, ev.LeadID)
	require.Equal(t, "10.0.0.1", ev.IPAddress)
}

func TestCreateAssignsStaffCreator(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	require.Empty(t, l.AssignedTo)

	in := validCreateInput()
	in.Email = "walk.in@example.com"
	l, err = svc.Create(agent, in, Provenance{})
	require.NoError(t, err)
	require.Equal(t, agent.ID, l.AssignedTo)
}

func TestCreateRejectsBadContact(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.Email = "not-an-email"
	_, err := svc.Create(models.Actor{}, in, Provenance{})
	require.True(t, errs.IsValidation(err))

	in = validCreateInput()
	in.Phone = "call me maybe"
	_, err = svc.Create(models.Actor{}, in, Provenance{})
	require.True(t, errs.IsValidation(err))

	in = validCreateInput()
	in.Phone = ""
	_, err = svc.Create(models.Actor{}, in, Provenance{})
	require.True(t, errs.IsValidation(err))
}

func TestListScopedToAssignedAgent(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	_, err = svc.Assign(admin, l.ID, agent.ID)
	require.NoError(t, err)

	in := validCreateInput()
	in.Email = "second.lead@example.com"
	_, err = svc.Create(models.Actor{}, in, Provenance{})
	require.NoError(t, err)

	_, total, err := svc.List(admin, database.LeadFilters{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	mine, total, err := svc.List(agent, database.LeadFilters{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, agent.ID, mine[0].AssignedTo)

	_, _, err = svc.List(models.Actor{}, database.LeadFilters{})
	require.True(t, errs.IsForbidden(err))
}

func TestGetDeniedForOtherAgent(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	_, err = svc.Assign(admin, l.ID, agent.ID)
	require.NoError(t, err)

	_, err = svc.Get(rival, l.ID)
	require.True(t, errs.IsForbidden(err))

	got, err := svc.Get(agent, l.ID)
	require.NoError(t, err)
	require.Equal(t, l.ID, got.ID)
}

func TestUpdateRecordsStatusChange(t *testing.T) {
	svc, ledger := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)

	notes := "spoke on the phone"
	_, err = svc.Update(admin, l.ID, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	require.Equal(t, models.ActivityLeadUpdated, ledger.last(t).Type)

	status := "contacted"
	reason := "reached on the first try"
	got, err := svc.Update(admin, l.ID, UpdateInput{Status: &status, Notes: &reason})
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusContacted, got.Status)
	require.Equal(t, models.ActivityLeadStatusUpdated, ledger.last(t).Type)

	require.Len(t, got.Interactions, 1)
	audit := got.Interactions[0]
	require.Equal(t, models.InteractionNote, audit.Type)
	require.Equal(t, admin.ID, audit.Agent)
	require.Contains(t, audit.Notes, "from new to contacted")
	require.Contains(t, audit.Notes, reason)
}

func TestAssignRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)

	_, err = svc.Assign(agent, l.ID, agent.ID)
	require.True(t, errs.IsForbidden(err))

	_, err = svc.Assign(admin, l.ID, "")
	require.True(t, errs.IsValidation(err))

	got, err := svc.Assign(admin, l.ID, agent.ID)
	require.NoError(t, err)
	require.Equal(t, agent.ID, got.AssignedTo)
}

func TestAddInteraction(t *testing.T) {
	svc, ledger := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)

	_, err = svc.AddInteraction(models.Actor{}, l.ID, InteractionInput{Type: "call"})
	require.True(t, errs.IsForbidden(err))

	followUp := time.Now().Add(48 * time.Hour)
	got, err := svc.AddInteraction(admin, l.ID, InteractionInput{
		Type:         "call",
		Notes:        "reached, wants a viewing",
		Outcome:      "positive",
		NewStatus:    "contacted",
		NextFollowUp: &followUp,
	})
	require.NoError(t, err)
	require.Len(t, got.Interactions, 2)
	require.Equal(t, models.InteractionCall, got.Interactions[0].Type)
	require.Equal(t, admin.ID, got.Interactions[0].Agent)
	require.Equal(t, models.InteractionNote, got.Interactions[1].Type)
	require.Contains(t, got.Interactions[1].Notes, "from new to contacted")
	require.NotNil(t, got.LastContactDate)
	require.Equal(t, models.LeadStatusContacted, got.Status)
	require.NotNil(t, got.NextFollowUp)
	require.Equal(t, models.ActivityLeadInteraction, ledger.last(t).Type)
}

func TestAddInteractionAllowedOnClosedLead(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)

	status := "lost"
	_, err = svc.Update(admin, l.ID, UpdateInput{Status: &status})
	require.NoError(t, err)

	got, err := svc.AddInteraction(admin, l.ID, InteractionInput{Type: "call", Notes: "they called back"})
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusLost, got.Status)
	require.Equal(t, models.InteractionCall, got.Interactions[len(got.Interactions)-1].Type)
}

func TestConvertCreatesCustomer(t *testing.T) {
	svc, ledger := newTestService(t)

	in := validCreateInput()
	maxPrice := 6_000_000.0
	in.Preferences = &models.SearchPreferences{PropertyType: "apartment", MaxPrice: &maxPrice}
	l, err := svc.Create(models.Actor{}, in, Provenance{})
	require.NoError(t, err)

	lead, customer, err := svc.Convert(admin, l.ID, ConvertInput{Address: "Bole, Addis Ababa"})
	require.NoError(t, err)
	require.True(t, lead.ConvertedToCustomer)
	require.Equal(t, models.LeadStatusConverted, lead.Status)
	require.Equal(t, customer.ID, lead.CustomerID)
	require.NotNil(t, lead.ConversionDate)
	require.Equal(t, l.Email, customer.Email)
	require.Equal(t, models.CustomerStatusActive, customer.Status)
	require.NotNil(t, customer.Preferences)
	require.Equal(t, "apartment", customer.Preferences.PropertyType)

	ev := ledger.last(t)
	require.Equal(t, models.ActivityLeadConverted, ev.Type)
	require.Equal(t, customer.ID, ev.CustomerID)

	// Converting twice conflicts
	_, _, err = svc.Convert(admin, l.ID, ConvertInput{})
	require.True(t, errs.IsConflict(err))
}

func TestConvertRejectsDuplicateContact(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	_, _, err = svc.Convert(admin, first.ID, ConvertInput{})
	require.NoError(t, err)

	// Same email arrives as a fresh lead
	second, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	_, _, err = svc.Convert(admin, second.ID, ConvertInput{})
	require.True(t, errs.IsConflict(err))
}

func TestFollowUpReports(t *testing.T) {
	svc, _ := newTestService(t)

	soon := time.Now().Add(72 * time.Hour)
	l1, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	_, err = svc.Update(admin, l1.ID, UpdateInput{NextFollowUp: &soon})
	require.NoError(t, err)

	past := time.Now().Add(-24 * time.Hour)
	in := validCreateInput()
	in.Email = "overdue.lead@example.com"
	l2, err := svc.Create(models.Actor{}, in, Provenance{})
	require.NoError(t, err)
	_, err = svc.Update(admin, l2.ID, UpdateInput{NextFollowUp: &past})
	require.NoError(t, err)

	// Closed leads stay out of both reports
	in = validCreateInput()
	in.Email = "lost.lead@example.com"
	l3, err := svc.Create(models.Actor{}, in, Provenance{})
	require.NoError(t, err)
	lost := "lost"
	_, err = svc.Update(admin, l3.ID, UpdateInput{Status: &lost, NextFollowUp: &past})
	require.NoError(t, err)

	upcoming, err := svc.UpcomingFollowUps(admin)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, l1.ID, upcoming[0].ID)

	overdue, err := svc.OverdueFollowUps(admin)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, l2.ID, overdue[0].ID)

	// Agents only see their own assignments
	scoped, err := svc.UpcomingFollowUps(agent)
	require.NoError(t, err)
	require.Empty(t, scoped)
}

func TestStatsAndFunnel(t *testing.T) {
	svc, _ := newTestService(t)

	l1, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)
	_, _, err = svc.Convert(admin, l1.ID, ConvertInput{})
	require.NoError(t, err)

	in := validCreateInput()
	in.Email = "fresh.lead@example.com"
	_, err = svc.Create(models.Actor{}, in, Provenance{})
	require.NoError(t, err)

	_, err = svc.Stats(agent)
	require.True(t, errs.IsForbidden(err))

	stats, err := svc.Stats(admin)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(1), stats.Converted)
	require.Equal(t, int64(2), stats.NewThisWeek)
	require.InDelta(t, 50.0, stats.ConversionRate, 0.01)

	funnel, err := svc.Funnel(admin)
	require.NoError(t, err)
	require.Len(t, funnel, len(models.FunnelOrder))
	require.Equal(t, models.LeadStatusNew, funnel[0].Status)
	require.Equal(t, int64(1), funnel[0].Count)
	require.InDelta(t, 50.0, funnel[0].Percentage, 0.01)
}

func TestDeleteAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(models.Actor{}, validCreateInput(), Provenance{})
	require.NoError(t, err)

	require.True(t, errs.IsForbidden(svc.Delete(agent, l.ID)))
	require.NoError(t, svc.Delete(admin, l.ID))

	_, err = svc.Get(admin, l.ID)
	require.True(t, errs.IsNotFound(err))
}
