package api

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"

	"golf-pickem/internal/config"
)

const (
	sportContentBaseURL = "https://golf-leaderboard-data.p.rapidapi.com"
	sportContentHost    = "golf-leaderboard-data.p.rapidapi.com"
)

// SportContentClient fetches leaderboards, entry lists, and the season
// fixture schedule from the golf-leaderboard-data RapidAPI feed.
type SportContentClient struct {
	apiKey string
	client *fasthttp.Client
}

func NewSportContentClient(cfg *config.Config) *SportContentClient {
	return &SportContentClient{
		apiKey: cfg.SportContentKey,
		client: newHTTPClient(),
	}
}

func (c *SportContentClient) headers() map[string]string {
	return map[string]string{
		"X-RapidAPI-Key":  c.apiKey,
		"X-RapidAPI-Host": sportContentHost,
	}
}

type LeaderboardResponse struct {
	Results LeaderboardResults `json:"results"`
}

type LeaderboardResults struct {
	Tournament  TournamentInfo   `json:"tournament"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

type TournamentInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Course   string `json:"course"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type LeaderboardRow struct {
	PlayerID   int64   `json:"player_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Country    string  `json:"country"`
	Position   string  `json:"position"`
	Status     string  `json:"status"`
	Strokes    int     `json:"strokes"`
	TotalToPar int64   `json:"total_to_par"`
	PrizeMoney float64 `json:"prize_money,string"`
	Rounds     []Round `json:"rounds"`
}

type Round struct {
	RoundNumber int `json:"round_number"`
	Strokes     int `json:"strokes"`
}

// GetLeaderboard returns the leaderboard for a tournament by its
// SportContent ID.
func (c *SportContentClient) GetLeaderboard(ctx context.Context, tournamentID int64) (*LeaderboardResponse, error) {
	url := fmt.Sprintf("%s/leaderboard/%d", sportContentBaseURL, tournamentID)
	return doRequest[LeaderboardResponse](ctx, c.client, url, c.headers())
}

type EntryListResponse struct {
	Results EntryListResults `json:"results"`
}

type EntryListResults struct {
	Tournament TournamentInfo `json:"tournament"`
	EntryList  []Entry        `json:"entry_list"`
}

type Entry struct {
	PlayerID  int64  `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
}

// GetEntryList returns the committed entries for a tournament by its
// SportContent ID.
func (c *SportContentClient) GetEntryList(ctx context.Context, tournamentID int64) (*EntryListResponse, error) {
	url := fmt.Sprintf("%s/entry-list/%d", sportContentBaseURL, tournamentID)
	return doRequest[EntryListResponse](ctx, c.client, url, c.headers())
}

type FixturesResponse struct {
	Results []Fixture `json:"results"`
}

type Fixture struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"` // "2026-01-15 00:00:00"
	EndDate   string `json:"end_date"`
	TimeZone  string `json:"timezone"`
	Prestige  string `json:"prestige"` // "major" on the four majors
}

// GetFixtures returns the season schedule for a tour.
func (c *SportContentClient) GetFixtures(ctx context.Context, tourID, season int) (*FixturesResponse, error) {
	url := fmt.Sprintf("%s/fixtures/%d/%d", sportContentBaseURL, tourID, season)
	return doRequest[FixturesResponse](ctx, c.client, url, c.headers())
}
