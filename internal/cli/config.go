package cli

import (
	"fmt"
	"io"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/infra/config"
	"github.com/hotelops/reklamacije/internal/usecase"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// configSources is implemented by config managers that can report which
// files exist on disk.
type configSources interface {
	GetGlobalConfigInfo() config.ConfigInfo
	GetRepoConfigInfo() config.ConfigInfo
}

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage reklamacije configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Sources are applied in order: built-in defaults, the global config
($XDG_CONFIG_HOME/reklamacije/config.toml), the data directory config
(.reklamacije/config.toml), then the ONESIGNAL_APP_ID and
ONESIGNAL_REST_API_KEY environment variables. Secrets are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.AppConfig
			if c.ConfigLoader != nil {
				loaded, err := c.ConfigLoader.Load()
				if err != nil {
					return err
				}
				cfg = loaded
			}

			w := cmd.OutOrStdout()
			if sources, ok := c.ConfigManager.(configSources); ok {
				_, _ = fmt.Fprintln(w, "[Loaded from]")
				for _, info := range []config.ConfigInfo{sources.GetGlobalConfigInfo(), sources.GetRepoConfigInfo()} {
					if info.Path == "" {
						continue
					}
					if info.Exists {
						_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
					} else {
						_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
					}
				}
				_, _ = fmt.Fprintln(w)
			}

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, cfg)
		},
	}
}

// formatEffectiveConfig writes cfg as TOML with secrets masked.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	if cfg == nil {
		return domain.ErrConfigNil
	}
	masked := *cfg
	if masked.Notify.APIKey != "" {
		masked.Notify.APIKey = "********"
	}
	if err := toml.NewEncoder(w).Encode(masked); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand(c *app.Container) *cobra.Command {
	var section string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template with default values to stdout.

The output does not depend on existing configuration files and works
even if they are broken. --section prints a single table.

Examples:
  reklamacije config template > ~/.config/reklamacije/config.toml
  reklamacije config template --section scheduler`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigTemplateUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigTemplateInput{
				Config:  domain.NewDefaultConfig(),
				Section: section,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "Print only this table (store, scheduler, notify, log, actor)")
	return cmd
}
