package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"blorders/internal/journal"
	"blorders/internal/manifest"
)

var (
	reportKafka bool
	reportIdle  time.Duration
)

var reportCmd = &cobra.Command{
	Use:   "report <run-folder>",
	Short: "Summarise a finished run",
	Long: `Prints the run manifest and the latest outcome of every order, rebuilt from
logs/journal.jsonl or, with --kafka, from the events topic.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logs := filepath.Join(args[0], "logs")
		m, err := manifest.NewFilesystemManifest(logs).Read()
		if err != nil {
			return err
		}

		var rp *journal.Replay
		if reportKafka {
			if cfg.Kafka.Brokers == "" {
				return errors.New("kafka.brokers is not set")
			}
			rp, err = journal.ReplayKafka(cmd.Context(), journal.SplitBrokers(cfg.Kafka.Brokers), cfg.Kafka.TopicEvents, m.RunID, reportIdle)
		} else {
			rp, err = journal.ReplayFile(filepath.Join(logs, journal.FileName))
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		mode := "verify"
		if m.Download {
			mode = "download"
		}
		fmt.Fprintf(w, "Run %s (%s) %s\n", m.RunID, mode, m.CSV)
		fmt.Fprintf(w, "Started %s, took %s\n",
			time.Unix(m.StartedAt, 0).Format(time.DateTime), time.Duration(m.FinishedAt-m.StartedAt)*time.Second)
		fmt.Fprintf(w, "Orders %d, resolved %d, downloaded %d, skipped rows %d\n", m.Orders, m.Resolved, m.Downloaded, m.SkippedRows)
		if len(m.Missing) > 0 {
			fmt.Fprintf(w, "Missing designs: %s\n", strings.Join(m.Missing, ", "))
		}

		tally := rp.Tally()
		outcomes := make([]string, 0, len(tally))
		for o := range tally {
			outcomes = append(outcomes, string(o))
		}
		sort.Strings(outcomes)
		fmt.Fprintf(w, "Journal: %d events, %d duplicates\n", rp.Applied, rp.Skipped)
		for _, o := range outcomes {
			fmt.Fprintf(w, "  %-16s %d\n", o, tally[journal.Outcome(o)])
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportKafka, "kafka", false, "rebuild outcomes from the events topic")
	reportCmd.Flags().DurationVar(&reportIdle, "idle", 3*time.Second, "stop reading the topic after this long without messages")
	rootCmd.AddCommand(reportCmd)
}
