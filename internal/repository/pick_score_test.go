package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golf-pickem/internal/domain"
)

func TestPickSupersede(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "cantlpa01", "Patrick", "Cantlay", 0, 0)
	seedGolfer(t, db, "rahmjo01", "Jon", "Rahm", 0, 0)
	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")
	leagueID, memberIDs := seedLeagueWithMembers(t, db, "alice")
	memberID := memberIDs[0]

	seedPick(t, db, memberID, tournamentID, "cantlpa01", 2026)
	seedPick(t, db, memberID, tournamentID, "rahmjo01", 2026)

	current, err := repo.GetCurrent(ctx, memberID, tournamentID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "rahmjo01", current.GolferID)

	// exactly one most-recent pick, the old one kept as history
	picks, err := repo.ListCurrentForTournament(ctx, tournamentID, leagueID)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "rahmjo01", picks[0].GolferID)

	var total int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM picks WHERE league_member_id = ?`, memberID).Scan(&total))
	assert.Equal(t, 2, total)
}

func TestPickListHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewPickRepository(db, zerolog.Nop())
	ctx := context.Background()

	seedGolfer(t, db, "cantlpa01", "Patrick", "Cantlay", 0, 0)
	seedGolfer(t, db, "rahmjo01", "Jon", "Rahm", 0, 0)
	week1 := seedTournament(t, db, 1, "Week One", domain.FormatStroke, false, "2026-01-10")
	week2 := seedTournament(t, db, 2, "Week Two", domain.FormatStroke, false, "2026-01-17")
	_, memberIDs := seedLeagueWithMembers(t, db, "alice", "bob")

	seedPick(t, db, memberIDs[0], week1, "cantlpa01", 2026)
	seedPick(t, db, memberIDs[1], week1, "rahmjo01", 2026)
	seedPick(t, db, memberIDs[0], week2, "rahmjo01", 2026)

	history, err := repo.ListHistory(ctx, memberIDs, []int64{week1})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = repo.ListHistory(ctx, []int64{memberIDs[0]}, []int64{week1, week2})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = repo.ListHistory(ctx, nil, []int64{week1})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestScoreReplaceAndStandings(t *testing.T) {
	db := newTestDB(t)
	repo := NewScoreRepository(db, zerolog.Nop())
	ctx := context.Background()

	tournamentID := seedTournament(t, db, 1, "Test Open", domain.FormatStroke, false, "2026-03-01")
	leagueID, memberIDs := seedLeagueWithMembers(t, db, "alice", "bob")

	for i, memberID := range memberIDs {
		score := &domain.LeagueMemberTournamentScore{
			LeagueMemberID: memberID,
			TournamentID:   tournamentID,
			Score:          int64(1000 * (i + 1)),
		}
		require.NoError(t, repo.Insert(ctx, score))
	}

	scores, err := repo.ListForTournamentLeague(ctx, tournamentID, leagueID)
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	deleted, err := repo.DeleteForTournamentMembers(ctx, tournamentID, memberIDs)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	require.NoError(t, repo.Insert(ctx, &domain.LeagueMemberTournamentScore{
		LeagueMemberID: memberIDs[0],
		TournamentID:   tournamentID,
		Score:          7500,
	}))
	require.NoError(t, repo.Insert(ctx, &domain.LeagueMemberTournamentScore{
		LeagueMemberID: memberIDs[1],
		TournamentID:   tournamentID,
		Score:          -1000,
		IsNoPick:       true,
	}))

	standings, err := repo.Standings(ctx, leagueID)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "alice", standings[0].DisplayName)
	assert.Equal(t, int64(7500), standings[0].Total)
	assert.Equal(t, 1, standings[0].Tournaments)
	assert.Equal(t, int64(-1000), standings[1].Total)
}

func TestStandingsIncludesMembersWithoutScores(t *testing.T) {
	db := newTestDB(t)
	repo := NewScoreRepository(db, zerolog.Nop())
	ctx := context.Background()

	leagueID, _ := seedLeagueWithMembers(t, db, "alice", "bob")

	standings, err := repo.Standings(ctx, leagueID)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	for _, s := range standings {
		assert.Zero(t, s.Total)
		assert.Zero(t, s.Tournaments)
	}
}

func TestLoadRulesetSeededDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewScoreRepository(db, zerolog.Nop())

	rules, err := repo.LoadRuleset(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 11)
	assert.Equal(t, 1, rules[0].StartPosition)
	assert.Equal(t, int64(10000), rules[0].Points)
	assert.Equal(t, 51, rules[10].StartPosition)
	assert.Equal(t, int64(500), rules[10].Points)
}
