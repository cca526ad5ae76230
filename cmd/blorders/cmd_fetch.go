package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"blorders/internal/fulfil"
	"blorders/internal/journal"
	"blorders/internal/manifest"
	"blorders/internal/order"
	"blorders/internal/sku"
)

var (
	outputDir string
	resumeDir string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [orders.csv]",
	Short: "Download the artwork of every order",
	Long: `Reads the order export (the first *.csv of the working directory when no
file is given) and downloads one file per order into
"<output>/Baselinker - <date> - <time>/<color>/<category>/".

Orders whose artwork is not found are listed in logs/error_log and every
search in logs/search_log. --resume continues an interrupted run in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrders(cmd, args, true)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [orders.csv]",
	Short: "Check that every order has artwork without downloading it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrders(cmd, args, false)
	},
}

func init() {
	for _, c := range []*cobra.Command{fetchCmd, verifyCmd} {
		c.Flags().StringVarP(&outputDir, "output", "o", "", "directory receiving the run folder (default output.dir)")
		rootCmd.AddCommand(c)
	}
	fetchCmd.Flags().StringVar(&resumeDir, "resume", "", "run folder of an interrupted run to continue")
}

func runOrders(cmd *cobra.Command, args []string, download bool) error {
	ctx := cmd.Context()
	csvPath := ""
	if len(args) == 1 {
		csvPath = args[0]
	} else {
		p, err := order.FindCSV(".")
		if err != nil {
			return err
		}
		csvPath = p
	}

	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	st, scopes, err := searchStore(ctx)
	if err != nil {
		return err
	}
	deps := fulfil.Deps{
		Store:      st,
		Normalizer: sku.New(rules),
		Scopes:     scopes,
		MaxDepth:   cfg.MaxDepth,
		Metrics:    mreg,
		Logger:     logger,
	}
	if cfg.Kafka.Brokers != "" {
		jw := journal.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		mp := manifest.NewKafkaManifest(cfg.Kafka.Brokers, cfg.Kafka.TopicRuns)
		onClose(jw.Close)
		onClose(mp.Close)
		deps.Journal, deps.Manifest = jw, mp
	}

	opts := fulfil.Options{Download: download, OutputDir: cfg.OutputDir}
	if outputDir != "" {
		opts.OutputDir = outputDir
	}
	if resumeDir != "" {
		opts.RunRoot, opts.Resume = resumeDir, true
	}
	sum, err := fulfil.New(deps).Run(ctx, csvPath, opts)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sum, download)
	return nil
}

func printSummary(w io.Writer, s fulfil.Summary, download bool) {
	fmt.Fprintf(w, "Run:        %s\n", s.RunRoot)
	fmt.Fprintf(w, "Orders:     %d\n", s.OrderCount)
	fmt.Fprintf(w, "Resolved:   %d\n", s.ResolvedCount)
	if download {
		fmt.Fprintf(w, "Downloaded: %d\n", s.DownloadedCount)
	}
	if s.SkippedRows > 0 {
		fmt.Fprintf(w, "Skipped:    %d rows\n", s.SkippedRows)
	}
	if len(s.MissingDesignCodes) > 0 {
		fmt.Fprintf(w, "Missing:    %s\n", strings.Join(s.MissingDesignCodes, ", "))
	}
}
