package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"real-estate-marketplace/internal/activity"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/errs"
	"real-estate-marketplace/internal/models"
	"real-estate-marketplace/internal/search"
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
	return NewService(newTestDB(t), nil, ledger), ledger
}

var (
	owner = models.Actor{ID: "owner-1", Role: models.RoleAgent, Name: "Abebe"}
	admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin, Name: "Sara"}
	other = models.Actor{ID: "other-1", Role: models.RoleAgent, Name: "Kebede"}
)

func validCreateInput() CreateInput {
	return CreateInput{
		Title:        "Modern apartment in Bole",
		Price:        4500000,
		Beds:         3,
		Baths:        2,
		Sqft:         140,
		Address:      "Bole Road, Addis Ababa",
		PropertyType: "apartment",
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, ledger := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, models.CurrencyETB, p.Currency)
	require.Equal(t, models.StatusForSale, p.Status)
	require.Equal(t, models.PublishStatusDraft, p.PublishStatus)
	require.Equal(t, models.ListingTypeSale, p.ListingType)
	require.Equal(t, models.DefaultLat, p.Lat)
	require.Equal(t, models.DefaultLng, p.Lng)
	require.Equal(t, owner.ID, p.OwnerID)

	ev := ledger.last(t)
	require.Equal(t, models.ActivityPropertyUpload, ev.Type)
	require.Equal(t, p.ID, ev.PropertyID)
}

func TestCreateRejectsAnonymous(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(models.Actor{}, validCreateInput())
	require.True(t, errs.IsForbidden(err))
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.Title = "tiny"
	_, err := svc.Create(owner, in)
	require.True(t, errs.IsValidation(err))

	in = validCreateInput()
	in.Address = "short"
	_, err = svc.Create(owner, in)
	require.True(t, errs.IsValidation(err))

	in = validCreateInput()
	year := 1750
	in.YearBuilt = &year
	_, err = svc.Create(owner, in)
	require.True(t, errs.IsValidation(err))

	in = validCreateInput()
	in.Images = []string{"ftp://cdn.example.com/a.jpg"}
	_, err = svc.Create(owner, in)
	require.True(t, errs.IsValidation(err))

	// Price zero means price on request
	in = validCreateInput()
	in.Price = 0
	p, err := svc.Create(owner, in)
	require.NoError(t, err)
	require.Zero(t, p.Price)
}

func TestCreateNonAdminCannotSelfFeature(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.IsFeatured = true
	p, err := svc.Create(owner, in)
	require.NoError(t, err)
	require.False(t, p.IsFeatured)

	p, err = svc.Create(admin, in)
	require.NoError(t, err)
	require.True(t, p.IsFeatured)
}

func TestPublicGetHidesUnpublished(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	_, err = svc.PublicGet(other, p.ID, activity.Event{})
	require.True(t, errs.IsNotFound(err))

	// Owner and admin still see their draft
	got, err := svc.PublicGet(owner, p.ID, activity.Event{})
	require.NoError(t, err)
	require.Equal(t, int64(0), got.Views)

	_, err = svc.PublicGet(admin, p.ID, activity.Event{})
	require.NoError(t, err)
}

func TestPublicGetCountsViews(t *testing.T) {
	svc, ledger := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Publish(owner, p.ID)
	require.NoError(t, err)

	got, err := svc.PublicGet(models.Actor{}, p.ID, activity.Event{IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Views)

	got, err = svc.PublicGet(models.Actor{}, p.ID, activity.Event{})
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Views)

	ev := ledger.last(t)
	require.Equal(t, models.ActivityPropertyView, ev.Type)
	require.Equal(t, p.ID, ev.PropertyID)

	// Owners previewing their own listing leave the count alone
	got, err = svc.PublicGet(owner, p.ID, activity.Event{})
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Views)
}

func TestUpdateOwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	title := "Renovated apartment in Bole"
	_, err = svc.Update(other, p.ID, UpdateInput{Title: &title})
	require.True(t, errs.IsForbidden(err))

	got, err := svc.Update(owner, p.ID, UpdateInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, got.Title)

	// Admin may edit anyone's listing
	price := 5000000.0
	got, err = svc.Update(admin, p.ID, UpdateInput{Price: &price})
	require.NoError(t, err)
	require.Equal(t, price, got.Price)
}

func TestPublishLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	published, err := svc.Publish(owner, p.ID)
	require.NoError(t, err)
	require.True(t, published.IsPublished())
	require.NotNil(t, published.PublishedAt)

	archived, err := svc.Archive(owner, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublishStatusArchived, archived.PublishStatus)
	require.NotNil(t, archived.ArchivedAt)

	draft, err := svc.MarkDraft(owner, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PublishStatusDraft, draft.PublishStatus)
	require.Nil(t, draft.PublishedAt)
}

func TestToggleStatusCycles(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	got, err := svc.ToggleStatus(owner, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSold, got.Status)

	got, err = svc.ToggleStatus(owner, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusForSale, got.Status)

	_, err = svc.ToggleStatus(other, p.ID)
	require.True(t, errs.IsForbidden(err))
}

func TestSetFeaturedAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	_, err = svc.SetFeatured(owner, p.ID, true)
	require.True(t, errs.IsForbidden(err))

	got, err := svc.SetFeatured(admin, p.ID, true)
	require.NoError(t, err)
	require.True(t, got.IsFeatured)
}

func TestDeleteRemovesListing(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	require.True(t, errs.IsForbidden(svc.Delete(other, p.ID)))
	require.NoError(t, svc.Delete(owner, p.ID))

	_, err = svc.ManagementGet(owner, p.ID)
	require.True(t, errs.IsNotFound(err))
}

func TestSearchOnlyPublished(t *testing.T) {
	svc, ledger := newTestService(t)

	draft, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	in := validCreateInput()
	in.Title = "Family house in Kazanchis"
	in.PropertyType = "house"
	published, err := svc.Create(owner, in)
	require.NoError(t, err)
	_, err = svc.Publish(owner, published.ID)
	require.NoError(t, err)

	results, total, err := svc.Search(models.Actor{}, database.PropertyFilters{}, activity.Event{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	require.Equal(t, published.ID, results[0].ID)
	require.NotEqual(t, draft.ID, results[0].ID)

	ev := ledger.last(t)
	require.Equal(t, models.ActivitySearch, ev.Type)
	require.NotNil(t, ev.ResultCount)
	require.Equal(t, 1, *ev.ResultCount)
}

func TestSearchWidensRentStatus(t *testing.T) {
	svc, _ := newTestService(t)

	// Marketed for rent via listing_type while status still says for_sale
	in := validCreateInput()
	in.ListingType = "rent"
	p, err := svc.Create(owner, in)
	require.NoError(t, err)
	_, err = svc.Publish(owner, p.ID)
	require.NoError(t, err)

	results, _, err := svc.Search(models.Actor{}, database.PropertyFilters{Status: "for_rent"}, activity.Event{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, _, err = svc.Search(models.Actor{}, database.PropertyFilters{Status: "sold"}, activity.Event{})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchFeaturedFirst(t *testing.T) {
	svc, _ := newTestService(t)

	plain, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Publish(owner, plain.ID)
	require.NoError(t, err)

	in := validCreateInput()
	in.Title = "Featured villa in Old Airport"
	featured, err := svc.Create(owner, in)
	require.NoError(t, err)
	_, err = svc.Publish(owner, featured.ID)
	require.NoError(t, err)
	_, err = svc.SetFeatured(admin, featured.ID, true)
	require.NoError(t, err)

	results, _, err := svc.Search(models.Actor{}, database.PropertyFilters{SortBy: "oldest"}, activity.Event{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, featured.ID, results[0].ID)
}

func TestTextSearchFallsBackToSQL(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.Title = "Penthouse with skyline view"
	p, err := svc.Create(owner, in)
	require.NoError(t, err)
	_, err = svc.Publish(owner, p.ID)
	require.NoError(t, err)

	results, err := svc.TextSearch(models.Actor{}, "skyline", 10, activity.Event{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = svc.TextSearch(models.Actor{}, "warehouse", 10, activity.Event{})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestFilteredTextSearchFallsBackToSQL(t *testing.T) {
	svc, ledger := newTestService(t)

	cheap := validCreateInput()
	cheap.Title = "Affordable studio in Kazanchis"
	cheap.Price = 1500000
	pricey := validCreateInput()
	pricey.Title = "Luxury villa in Kazanchis"
	pricey.Price = 25000000

	for _, in := range []CreateInput{cheap, pricey} {
		p, err := svc.Create(owner, in)
		require.NoError(t, err)
		_, err = svc.Publish(owner, p.ID)
		require.NoError(t, err)
	}

	minPrice := 10000000.0
	results, err := svc.FilteredTextSearch(models.Actor{}, search.FilterParams{
		Query:    "kazanchis",
		MinPrice: &minPrice,
		Limit:    10,
	}, activity.Event{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Luxury villa in Kazanchis", results[0].Title)

	ev := ledger.last(t)
	require.Equal(t, models.ActivitySearch, ev.Type)
	require.Equal(t, "kazanchis", ev.SearchQuery)
	require.Equal(t, minPrice, ev.FilterCriteria["min_price"])
	require.NotNil(t, ev.ResultCount)
	require.Equal(t, 1, *ev.ResultCount)
}

func TestSearchFacetsRequiresIndex(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SearchFacets()
	require.Error(t, err)
}

func TestManagementListScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Create(other, validCreateInput())
	require.NoError(t, err)

	results, total, err := svc.ManagementList(owner, database.PropertyFilters{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, owner.ID, results[0].OwnerID)

	_, total, err = svc.ManagementList(admin, database.PropertyFilters{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	_, _, err = svc.ManagementList(models.Actor{}, database.PropertyFilters{})
	require.True(t, errs.IsForbidden(err))
}

func TestNearbyUsesBoundingBox(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)
	_, err = svc.Publish(owner, p.ID)
	require.NoError(t, err)

	// Default coordinates are central Addis Ababa
	results, err := svc.Nearby(models.DefaultLat, models.DefaultLng, 5, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// ~100km north, outside a 5km box
	results, err = svc.Nearby(models.DefaultLat+1, models.DefaultLng, 5, 10)
	require.NoError(t, err)
	require.Empty(t, results)

	_, err = svc.Nearby(120, 38, 5, 10)
	require.True(t, errs.IsValidation(err))
}

func TestStatsRequireAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(owner, validCreateInput())
	require.NoError(t, err)

	_, err = svc.StatusBreakdown(owner)
	require.True(t, errs.IsForbidden(err))

	byStatus, err := svc.StatusBreakdown(admin)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, string(models.StatusForSale), byStatus[0].Status)
	require.Equal(t, int64(1), byStatus[0].Count)

	byType, err := svc.TypeBreakdown(admin)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "apartment", byType[0].PropertyType)
}
