package api

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"

	"golf-pickem/internal/config"
)

const dataGolfFieldURL = "https://feeds.datagolf.com/field-updates"

// DataGolfClient fetches tournament field updates. DataGolf is more
// accurate and timely than SportContent for pre-tournament fields.
type DataGolfClient struct {
	apiKey string
	client *fasthttp.Client
}

func NewDataGolfClient(cfg *config.Config) *DataGolfClient {
	return &DataGolfClient{
		apiKey: cfg.DataGolfKey,
		client: newHTTPClient(),
	}
}

type FieldUpdatesResponse struct {
	EventName   string        `json:"event_name"`
	LastUpdated string        `json:"last_updated"`
	Field       []FieldPlayer `json:"field"`
}

type FieldPlayer struct {
	DGID       int64  `json:"dg_id"`
	PlayerName string `json:"player_name"` // "Last, First"
	Country    string `json:"country"`
}

// GetFieldUpdates returns the current field for the upcoming event on
// the given tour.
func (c *DataGolfClient) GetFieldUpdates(ctx context.Context, tour string) (*FieldUpdatesResponse, error) {
	url := fmt.Sprintf("%s?tour=%s&file_format=json&key=%s", dataGolfFieldURL, tour, c.apiKey)
	return doRequest[FieldUpdatesResponse](ctx, c.client, url, nil)
}
