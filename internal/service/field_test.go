package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golf-pickem/internal/api"
	"golf-pickem/internal/domain"
)

func TestSyncFieldCreatesGolfersAndEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.seedTournament(t, 0, "Test Open", domain.FormatStroke, false, "2026-03-01")

	svc := f.fieldService(&fakeField{resp: &api.FieldUpdatesResponse{
		EventName: "Test Open",
		Field: []api.FieldPlayer{
			{DGID: 100, PlayerName: "Cantlay, Patrick"},
			{DGID: 200, PlayerName: "Rahm, Jon"},
		},
	}}, &fakeEntryList{err: api.ErrNoData})

	synced, err := svc.SyncField(ctx, tournament, 2026, "pga")
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	golfers, err := f.golfers.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, golfers, 2)

	patrick, err := f.golfers.Get(ctx, "cantlpa01")
	require.NoError(t, err)
	assert.Equal(t, int64(100), patrick.DataGolfID)
	assert.Equal(t, "Patrick Cantlay", patrick.FullName)

	roster, err := f.entries.ListCurrent(ctx, tournament.ID, 2026)
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestSyncFieldSupersedesDroppedEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.seedTournament(t, 0, "Test Open", domain.FormatStroke, false, "2026-03-01")
	f.seedGolfer(t, "cantlpa01", "Patrick", "Cantlay", 0, 100)
	f.seedGolfer(t, "rahmjo01", "Jon", "Rahm", 0, 200)
	f.seedEntry(t, tournament.ID, "cantlpa01", 2026)
	f.seedEntry(t, tournament.ID, "rahmjo01", 2026)

	// Rahm withdrew from the field
	svc := f.fieldService(&fakeField{resp: &api.FieldUpdatesResponse{
		Field: []api.FieldPlayer{{DGID: 100, PlayerName: "Cantlay, Patrick"}},
	}}, &fakeEntryList{err: api.ErrNoData})

	synced, err := svc.SyncField(ctx, tournament, 2026, "pga")
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	roster, err := f.entries.ListCurrent(ctx, tournament.ID, 2026)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "cantlpa01", roster[0].Entry.GolferID)

	// the stale generation is history, not deleted
	stale, err := f.entries.Get(ctx, tournament.ID, "rahmjo01", 2026)
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.False(t, stale.IsMostRecent)
}

func TestSyncFieldMergesEntryListProviderIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.seedTournament(t, 900, "Test Open", domain.FormatStroke, false, "2026-03-01")

	svc := f.fieldService(
		&fakeField{resp: &api.FieldUpdatesResponse{
			Field: []api.FieldPlayer{{DGID: 100, PlayerName: "Cantlay, Patrick"}},
		}},
		&fakeEntryList{resp: &api.EntryListResponse{
			Results: api.EntryListResults{EntryList: []api.Entry{
				{PlayerID: 777, FirstName: "Patrick", LastName: "Cantlay"},
			}},
		}},
	)

	synced, err := svc.SyncField(ctx, tournament, 2026, "pga")
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	// the same golfer learned both provider IDs
	patrick, err := f.golfers.Get(ctx, "cantlpa01")
	require.NoError(t, err)
	assert.Equal(t, int64(100), patrick.DataGolfID)
	assert.Equal(t, int64(777), patrick.SportContentID)
}

func TestSyncFieldSkipsUnsplittableNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.seedTournament(t, 0, "Test Open", domain.FormatStroke, false, "2026-03-01")

	svc := f.fieldService(&fakeField{resp: &api.FieldUpdatesResponse{
		Field: []api.FieldPlayer{
			{DGID: 100, PlayerName: "Cantlay, Patrick"},
			{DGID: 300, PlayerName: "Mononym"},
		},
	}}, &fakeEntryList{err: api.ErrNoData})

	synced, err := svc.SyncField(ctx, tournament, 2026, "pga")
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	golfers, err := f.golfers.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, golfers, 1)
}

func TestSyncFieldSourceFailureAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tournament := f.seedTournament(t, 0, "Test Open", domain.FormatStroke, false, "2026-03-01")
	f.seedGolfer(t, "cantlpa01", "Patrick", "Cantlay", 0, 100)
	f.seedEntry(t, tournament.ID, "cantlpa01", 2026)

	svc := f.fieldService(&fakeField{err: api.ErrNoData}, &fakeEntryList{err: api.ErrNoData})
	_, err := svc.SyncField(ctx, tournament, 2026, "pga")
	assert.ErrorIs(t, err, api.ErrNoData)

	// nothing was staled by the failed sync
	roster, err := f.entries.ListCurrent(ctx, tournament.ID, 2026)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestSyncUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTournament(t, 0, "Past Open", domain.FormatStroke, false, "2000-03-01")
	upcoming := f.seedTournament(t, 0, "Future Open", domain.FormatStroke, false, "2999-03-01")

	svc := f.fieldService(&fakeField{resp: &api.FieldUpdatesResponse{
		Field: []api.FieldPlayer{{DGID: 100, PlayerName: "Cantlay, Patrick"}},
	}}, &fakeEntryList{err: api.ErrNoData})

	got, synced, err := svc.SyncUpcoming(ctx, "pga")
	require.NoError(t, err)
	assert.Equal(t, upcoming.ID, got.ID)
	assert.Equal(t, 1, synced)

	gotT, roster, err := svc.UpcomingField(ctx)
	require.NoError(t, err)
	assert.Equal(t, upcoming.ID, gotT.ID)
	require.Len(t, roster, 1)
	assert.Equal(t, "cantlpa01", roster[0].Entry.GolferID)
}
