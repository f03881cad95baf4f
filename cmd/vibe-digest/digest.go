package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-digest/internal/digest"
	"github.com/inodb/vibe-digest/internal/duckdb"
	"github.com/inodb/vibe-digest/internal/fasta"
	"github.com/inodb/vibe-digest/internal/fragment"
	"github.com/inodb/vibe-digest/internal/output"
	"github.com/inodb/vibe-digest/internal/plan"
)

type digestOptions struct {
	fastaPath  string
	outputFile string
	reuse      bool
	verbose    *bool
}

func newDigestCmd(verbose *bool) *cobra.Command {
	opts := &digestOptions{verbose: verbose}

	cmd := &cobra.Command{
		Use:   "digest <plans.yaml>",
		Short: "Compute the fragments of every plan in a YAML file",
		Long: `Compute the fragments produced by the cuts of each plan.

Plans are YAML documents separated by '---'. Use '-' to read from stdin.
Gzipped plan files are detected automatically.`,
		Example: `  vibe-digest digest plans.yaml
  vibe-digest digest -f display --fasta vectors.fa plans.yaml
  vibe-digest digest --db digests.duckdb --reuse plans.yaml
  cat plans.yaml | vibe-digest digest -`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: "plan file argument required"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fastaPath, "fasta", "", "FASTA file with sequences referenced by sequence_id")
	f.StringP("format", "f", "tab", "Output format: tab, display, cutmap, summary")
	f.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.String("db", "", "DuckDB file to store digests in")
	f.Int("workers", 0, "Worker count (default: number of CPUs)")
	f.BoolVar(&opts.reuse, "reuse", false, "Reuse stored digests when the plan file is unchanged (requires --db)")

	viper.BindPFlag("output.format", f.Lookup("format"))
	viper.BindPFlag("output.db", f.Lookup("db"))
	viper.BindPFlag("digest.workers", f.Lookup("workers"))

	return cmd
}

func runDigest(cmd *cobra.Command, planPath string, opts *digestOptions) error {
	logger, err := newLogger(*opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	parser, err := plan.NewParser(planPath)
	if err != nil {
		return err
	}
	defer parser.Close()

	var lookup digest.SequenceLookup
	if opts.fastaPath != "" {
		loader := fasta.NewLoader(opts.fastaPath)
		if err := loader.Load(); err != nil {
			return err
		}
		logger.Info("loaded sequences",
			zap.String("fasta", opts.fastaPath),
			zap.Int("count", loader.SequenceCount()))
		lookup = loader
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.outputFile != "" {
		file, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	format := viper.GetString("output.format")
	writer, summary, err := newWriter(format, out)
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	d := digest.NewDigester(lookup)
	d.SetLogger(logger)
	d.SetWorkers(viper.GetInt("digest.workers"))

	dbPath := viper.GetString("output.db")
	if opts.reuse && dbPath == "" {
		return &usageError{msg: "--reuse requires --db"}
	}

	if dbPath == "" {
		if err := d.DigestAll(parser, writer); err != nil {
			return err
		}
	} else {
		if err := digestWithStore(d, parser, planPath, dbPath, writer, opts.reuse, logger); err != nil {
			return err
		}
	}

	if summary != nil {
		summary.WriteSummary(cmd.ErrOrStderr())
	}
	return nil
}

var outputFormats = []string{"tab", "display", "cutmap", "summary"}

func newWriter(format string, out io.Writer) (digest.FragmentWriter, *output.SummaryWriter, error) {
	switch format {
	case "tab":
		return output.NewTabWriter(out), nil, nil
	case "display":
		return output.NewDisplayWriter(out), nil, nil
	case "cutmap":
		return output.NewCutMapWriter(out), nil, nil
	case "summary":
		sw := output.NewSummaryWriter(out)
		return sw, sw, nil
	default:
		return nil, nil, &usageError{msg: fmt.Sprintf("unknown output format %q", format)}
	}
}

// digestWithStore digests plans while persisting results to DuckDB. With
// reuse set and an unchanged plan file, stored digests are read back
// instead of recomputed.
func digestWithStore(d *digest.Digester, src plan.Source, planPath, dbPath string,
	writer digest.FragmentWriter, reuse bool, logger *zap.Logger) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var fp duckdb.FileFingerprint
	fingerprinted := planPath != "-"
	if fingerprinted {
		if fp, err = duckdb.StatFile(planPath); err != nil {
			return fmt.Errorf("stat plan file: %w", err)
		}
	}

	tee := &storeWriter{next: writer, store: store}

	unchanged := false
	if reuse && fingerprinted {
		if unchanged, err = store.SourceUnchanged(fp); err != nil {
			return err
		}
	}

	if unchanged {
		logger.Info("plan file unchanged, reusing stored digests", zap.String("path", planPath))
		err = replayStored(d, src, store, writer, tee, logger)
	} else {
		err = d.DigestAll(src, tee)
	}
	if err != nil {
		return err
	}

	if fingerprinted {
		return store.RecordSource(fp)
	}
	return nil
}

// replayStored writes stored digests, computing only the plans missing
// from the store.
func replayStored(d *digest.Digester, src plan.Source, store *duckdb.Store,
	writer, tee digest.FragmentWriter, logger *zap.Logger) error {
	hits, misses := 0, 0
	for {
		p, err := src.Next()
		if err != nil {
			return fmt.Errorf("read plan: %w", err)
		}
		if p == nil {
			break
		}

		frags, err := store.LookupDigest(p.ID)
		if err != nil {
			return err
		}
		if frags != nil {
			hits++
			if err := writer.Write(p, frags); err != nil {
				return fmt.Errorf("write fragments: %w", err)
			}
			continue
		}

		misses++
		frags, err = d.Digest(p)
		if err != nil {
			logger.Warn("failed to digest plan",
				zap.String("plan", p.ID),
				zap.Int("document", src.Document()),
				zap.Error(err))
			continue
		}
		if err := tee.Write(p, frags); err != nil {
			return fmt.Errorf("write fragments: %w", err)
		}
	}

	logger.Info("reused stored digests", zap.Int("hits", hits), zap.Int("misses", misses))
	return writer.Flush()
}

// storeWriter persists every digest before passing it on.
type storeWriter struct {
	next  digest.FragmentWriter
	store *duckdb.Store
}

func (w *storeWriter) WriteHeader() error {
	return w.next.WriteHeader()
}

func (w *storeWriter) Write(p *plan.Plan, frags *fragment.Fragments) error {
	if err := w.store.WriteDigest(p.ID, frags); err != nil {
		return fmt.Errorf("store digest %s: %w", p.ID, err)
	}
	return w.next.Write(p, frags)
}

func (w *storeWriter) Flush() error {
	return w.next.Flush()
}
