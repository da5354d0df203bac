package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-captions/internal/config"
	"github.com/alnah/go-captions/internal/lang"
)

// ConfigCmd creates the config command with set/get/list subcommands.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: fmt.Sprintf(`Manage configuration stored in ~/.config/go-captions/config.

Available keys: %s`, strings.Join(config.Keys, ", ")),
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !config.ValidKey(key) {
				return fmt.Errorf("unknown config key %q (valid keys: %s)",
					key, strings.Join(config.Keys, ", "))
			}
			if err := validateConfigValue(key, value); err != nil {
				return err
			}
			if err := config.Save(key, value); err != nil {
				return err
			}
			fmt.Fprintf(env.Stdout, "%s = %s\n", key, value)
			return nil
		},
	}
}

func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !config.ValidKey(key) {
				return fmt.Errorf("unknown config key %q (valid keys: %s)",
					key, strings.Join(config.Keys, ", "))
			}
			value, err := config.Get(key)
			if err != nil {
				return err
			}
			if value == "" {
				fmt.Fprintf(env.Stdout, "%s is not set\n", key)
				return nil
			}
			fmt.Fprintln(env.Stdout, value)
			return nil
		},
	}
}

func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := config.List()
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(env.Stdout, "no configuration set")
				return nil
			}

			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(env.Stdout, "%s = %s\n", k, all[k])
			}
			return nil
		},
	}
}

// validateConfigValue applies key-specific validation before saving.
func validateConfigValue(key, value string) error {
	switch key {
	case config.KeyOutputDir:
		return config.ValidOutputDir(value)
	case config.KeyLanguage:
		return lang.Validate(value)
	case config.KeyYtDlpPath:
		info, err := os.Stat(config.ExpandPath(value))
		if err != nil {
			return fmt.Errorf("ytdlp-path does not exist: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("ytdlp-path is a directory, not an executable: %s", value)
		}
		return nil
	}
	return nil
}
