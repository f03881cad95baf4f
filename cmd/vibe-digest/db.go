package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-digest/internal/duckdb"
	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/output"
	"github.com/inodb/vibe-digest/internal/plan"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect digests stored in DuckDB",
		Long:  "List, show, locate, or clear digests stored with 'vibe-digest digest --db'. The database defaults to output.db from the config.",
		Example: `  vibe-digest db list --db digests.duckdb
  vibe-digest db show pUC19-EcoRI
  vibe-digest db locate pUC19-EcoRI 42
  vibe-digest db clear`,
	}

	cmd.PersistentFlags().String("db", "", "DuckDB file (default: output.db from config)")

	cmd.AddCommand(newDBListCmd())
	cmd.AddCommand(newDBShowCmd())
	cmd.AddCommand(newDBLocateCmd())
	cmd.AddCommand(newDBClearCmd())

	return cmd
}

func openStore(cmd *cobra.Command) (*duckdb.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("output.db")
	}
	if path == "" {
		return nil, &usageError{msg: "no database: pass --db or set output.db"}
	}
	return duckdb.Open(path)
}

func newDBListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored digests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			digests, err := store.ListDigests()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Plan\tSize\tFragments\tCreated")
			for _, d := range digests {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", d.PlanID, d.Size, d.FragmentCount, d.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newDBShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Draw the stored fragments of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			frags, err := store.LookupDigest(args[0])
			if err != nil {
				return err
			}
			if frags == nil {
				return fmt.Errorf("no stored digest for plan %q", args[0])
			}

			w := output.NewDisplayWriter(cmd.OutOrStdout())
			if err := w.Write(&plan.Plan{ID: args[0]}, frags); err != nil {
				return err
			}
			return w.Flush()
		},
	}
}

func newDBLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <plan-id> <position>",
		Short: "List the stored fragments covering a position",
		Long:  "List the stored fragments covering a position. Positions are offsets from the plan's left bound.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return &usageError{msg: fmt.Sprintf("invalid position %q", args[1])}
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			frags, err := store.LookupDigest(args[0])
			if err != nil {
				return err
			}
			if frags == nil {
				return fmt.Errorf("no stored digest for plan %q", args[0])
			}

			display := frags.ForDisplay()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Fragment\tP_left\tP_right\tC_left\tC_right")
			for _, n := range fragment.BuildIndex(frags).Containing(pos) {
				df := display[n]
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", n+1,
					bound(df.PLeft), bound(df.PRight), bound(df.CLeft), bound(df.CRight))
			}
			return w.Flush()
		},
	}
}

func bound(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}

func newDBClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all stored digests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearDigests(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared stored digests")
			return nil
		},
	}
}
