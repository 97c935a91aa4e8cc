package seed

import (
	"context"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/roster/internal/app/models"
)

// DefaultGroups are written into an empty group collection on first start.
var DefaultGroups = []appModels.Group{
	{ID: 0, Name: "IP-11"},
	{ID: 1, Name: "IP-12"},
	{ID: 2, Name: "IP-13"},
	{ID: 3, Name: "IP-15"},
}

// GroupSeeder is the write the seed needs from the group store
type GroupSeeder interface {
	InsertIfEmpty(ctx context.Context, groups []appModels.Group) (int, error)
}

// CreateDefaultGroups seeds the default groups unless the collection already has documents.
func CreateDefaultGroups(ctx context.Context, groups GroupSeeder, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default groups...")

	n, err := groups.InsertIfEmpty(ctx, DefaultGroups)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default groups")
		return err
	}
	if n == 0 {
		lgr.Info().Msg("Group collection already populated, skipping seed")
		return nil
	}

	lgr.Info().Int("count", n).Msg("Default groups created")
	return nil
}
