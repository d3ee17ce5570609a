package cli

import (
	"fmt"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/spf13/cobra"
)

// resolveActor returns the acting user: the [actor] config section with any
// --as-* flags applied on top.
func resolveActor(cmd *cobra.Command, c *app.Container) (domain.Actor, error) {
	var actor domain.Actor
	if c.AppConfig != nil {
		actor = c.AppConfig.Actor.Actor()
	}

	if v, _ := cmd.Flags().GetString(flagAsID); v != "" {
		actor.ID = v
	}
	if v, _ := cmd.Flags().GetString(flagAsName); v != "" {
		actor.Name = v
	}
	if v, _ := cmd.Flags().GetString(flagAsRole); v != "" {
		actor.Role = domain.Role(v)
	}

	if actor.IsZero() {
		return domain.Actor{}, fmt.Errorf("%w (set [actor] id in config.toml or pass --as-id)", domain.ErrMissingActor)
	}
	if actor.Name == "" {
		actor.Name = actor.ID
	}
	if !actor.Role.IsValid() {
		return domain.Actor{}, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, actor.Role)
	}
	return actor, nil
}
