package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-digest configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-digest.yaml.",
		Example: `  vibe-digest config                          # show all config
  vibe-digest config set output.format display  # draw fragments by default
  vibe-digest config get digest.workers         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

// configKeys are the settings vibe-digest reads.
var configKeys = []struct {
	key, help string
}{
	{"output.format", "digest output: " + strings.Join(outputFormats, ", ")},
	{"output.db", "DuckDB file for stored digests"},
	{"digest.workers", "digest workers, 0 for one per CPU"},
}

// runConfigShow prints every known key with its effective value, then any
// other keys found in the config file.
func runConfigShow(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	known := make(map[string]bool, len(configKeys))
	for _, k := range configKeys {
		known[k.key] = true
		fmt.Fprintf(w, "%s\t%v\t# %s\n", k.key, viper.Get(k.key), k.help)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	extra := make(map[string]any)
	for _, key := range viper.AllKeys() {
		if !known[key] {
			extra[key] = viper.Get(key)
		}
	}
	if len(extra) > 0 {
		b, err := yaml.Marshal(extra)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Fprintf(out, "\n# Unused keys\n%s", b)
	}

	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintf(out, "\n# Config file: %s\n", f)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	if key == "output.format" && !slices.Contains(outputFormats, value) {
		return &usageError{msg: fmt.Sprintf("unknown output format %q", value)}
	}

	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		if n, err := strconv.Atoi(value); err == nil {
			viper.Set(key, n)
		} else {
			viper.Set(key, value)
		}
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, configName+".yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}
