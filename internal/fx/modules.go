package fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"golf-pickem/internal/api"
	"golf-pickem/internal/config"
	"golf-pickem/internal/database"
	"golf-pickem/internal/logger"
	"golf-pickem/internal/repository"
	"golf-pickem/internal/server"
	"golf-pickem/internal/service"
	"golf-pickem/internal/status"
)

// The service constructors consume the provider clients through small
// interfaces; these adapters bind the concrete clients.
func provideFieldSource(c *api.DataGolfClient) service.FieldSource { return c }

func provideLeaderboardSource(c *api.SportContentClient) service.LeaderboardSource { return c }

func provideEntrySource(c *api.SportContentClient) service.EntrySource { return c }

func provideScheduleSource(c *api.SportContentClient) service.ScheduleSource { return c }

func provideNormalizer(store *repository.StatusMappingRepository, cfg *config.Config, log zerolog.Logger) (*status.Normalizer, error) {
	return status.NewNormalizer(context.Background(), store, cfg.UnknownStatusPolicy, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewGolferRepository),
	fx.Provide(repository.NewTournamentRepository),
	fx.Provide(repository.NewEntryRepository),
	fx.Provide(repository.NewResultRepository),
	fx.Provide(repository.NewLeagueRepository),
	fx.Provide(repository.NewPickRepository),
	fx.Provide(repository.NewScoreRepository),
	fx.Provide(repository.NewStatusMappingRepository),
	// api clients
	fx.Provide(api.NewDataGolfClient),
	fx.Provide(api.NewSportContentClient),
	fx.Provide(provideFieldSource),
	fx.Provide(provideLeaderboardSource),
	fx.Provide(provideEntrySource),
	fx.Provide(provideScheduleSource),
	// status normalizer
	fx.Provide(provideNormalizer),
	// svc
	fx.Provide(service.NewFieldService),
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewScoreService),
	fx.Provide(service.NewScheduleService),
	fx.Provide(service.NewPickService),
	// server
	fx.Provide(server.NewAdminServer),
)
