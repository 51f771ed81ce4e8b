package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggleSaleStatus(t *testing.T) {
	p := &Property{Status: StatusForSale}
	p.ToggleSaleStatus()
	require.Equal(t, StatusSold, p.Status)
	p.ToggleSaleStatus()
	require.Equal(t, StatusForSale, p.Status)

	p.Status = StatusForRent
	p.ToggleSaleStatus()
	require.Equal(t, StatusRented, p.Status)
	p.ToggleSaleStatus()
	require.Equal(t, StatusForRent, p.Status)

	// Anything else resets to for_sale
	p.Status = StatusOffMarket
	p.ToggleSaleStatus()
	require.Equal(t, StatusForSale, p.Status)
}

func TestPublishLifecycleTimestamps(t *testing.T) {
	p := &Property{}

	p.Publish()
	require.True(t, p.IsPublished())
	require.NotNil(t, p.PublishedAt)

	p.Archive()
	require.Equal(t, PublishStatusArchived, p.PublishStatus)
	require.NotNil(t, p.ArchivedAt)

	p.SetAsDraft()
	require.Equal(t, PublishStatusDraft, p.PublishStatus)
	require.Nil(t, p.PublishedAt)
}

func TestContactInfoEmpty(t *testing.T) {
	var c *ContactInfo
	require.True(t, c.Empty())
	require.True(t, (&ContactInfo{}).Empty())
	require.False(t, (&ContactInfo{Phone: "+251911000000"}).Empty())
}

func TestActorCanManage(t *testing.T) {
	adminActor := Actor{ID: "a-1", Role: RoleAdmin}
	agentActor := Actor{ID: "u-1", Role: RoleAgent}

	require.True(t, adminActor.CanManage("someone-else"))
	require.True(t, agentActor.CanManage("u-1"))
	require.False(t, agentActor.CanManage("u-2"))
	require.False(t, Actor{}.CanManage(""))
	require.True(t, Actor{}.Anonymous())
}
