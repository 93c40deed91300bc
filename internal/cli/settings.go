package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kmorrow/rackscore/internal/engine"
	"github.com/kmorrow/rackscore/internal/game"
	"github.com/kmorrow/rackscore/internal/session"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			cfg, err := ctrl.Settings(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}

			text, err := yaml.Marshal(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "encode settings", err)
			}
			return out.Success(string(text), cfg)
		},
	}

	cmd.AddCommand(newSettingsSetCommand(rootOpts))
	cmd.AddCommand(newSettingsBallValueCommand(rootOpts))
	cmd.AddCommand(newSettingsExportCommand(rootOpts))
	cmd.AddCommand(newSettingsImportCommand(rootOpts))

	return cmd
}

func newSettingsSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one configuration key. Keys:

  autoNextTurn          bool    advance the turn after every score
  strictTurnMode        bool    only the current player may score; roster locked
  eliminationEnabled    bool    skip mathematically eliminated players
  allowEliminatedInput  bool    let eliminated players keep scoring
  guestMode             bool    suppress durable history (privacy)
  snapshotChance        float   probability of a safety-net snapshot on archive`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			cfg, err := ctrl.Settings(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}

			if err := applySetting(&cfg, args[0], args[1]); err != nil {
				return out.Failure(err)
			}
			return saveSettings(cmd, ctrl, out, cfg)
		},
	}
}

func newSettingsBallValueCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ballvalue <ball> <points>",
		Short: "Set the point value of a ball",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ball, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "ball must be an integer", err)
			}
			points, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "points must be an integer", err)
			}

			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			cfg, err := ctrl.Settings(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}

			if cfg.BallValues == nil {
				cfg.BallValues = make(map[int]int)
			}
			cfg.BallValues[ball] = points
			return saveSettings(cmd, ctrl, out, cfg)
		},
	}
}

func newSettingsExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write settings to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			cfg, err := ctrl.Settings(cmd.Context())
			if err != nil {
				return out.Failure(err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "encode settings", err)
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write settings file", err)
			}
			return out.Success(fmt.Sprintf("settings written to %s\n", args[0]), cfg)
		},
	}
}

func newSettingsImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load settings from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read settings file", err)
			}

			var cfg game.Settings
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return WrapExitError(ExitCommandError, "decode settings file", err)
			}

			_, ctrl, cleanup, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := formatter(rootOpts, cmd)
			return saveSettings(cmd, ctrl, out, cfg)
		},
	}
}

// applySetting mutates one configuration key from its string form.
func applySetting(cfg *game.Settings, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, engine.NewValidationError("value for %s must be a boolean, got %q", key, value)
		}
		return b, nil
	}

	switch key {
	case "autoNextTurn":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.AutoNextTurn = b
	case "strictTurnMode":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.StrictTurnMode = b
	case "eliminationEnabled":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.EliminationEnabled = b
	case "allowEliminatedInput":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.AllowEliminatedInput = b
	case "guestMode":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.GuestMode = b
	case "snapshotChance":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return engine.NewValidationError("value for %s must be a number, got %q", key, value)
		}
		cfg.SnapshotChance = f
	default:
		return engine.NewValidationError("unknown setting %q", key)
	}
	return nil
}

func saveSettings(cmd *cobra.Command, ctrl *session.Controller, out *OutputFormatter, cfg game.Settings) error {
	if err := ctrl.UpdateSettings(cmd.Context(), cfg); err != nil {
		return out.Failure(err)
	}

	text, err := yaml.Marshal(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "encode settings", err)
	}
	return out.Success(string(text), cfg)
}
