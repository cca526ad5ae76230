package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blorders/internal/artwork"
	"blorders/internal/config"
)

var (
	mirrorFolder string
	mirrorDest   string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy artwork folders to a local directory",
	Long: `With --folder, copies that folder tree into --dest. Without it, copies every
configured scope folder into its own sub-directory of --dest, the layout
--local-root expects. Spaces in names become underscores.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, scopes, err := remoteStore(ctx)
		if err != nil {
			return err
		}
		jobs := map[string]string{}
		if mirrorFolder != "" {
			jobs[mirrorDest] = mirrorFolder
		} else {
			local := config.LocalTable()
			for k, id := range scopes {
				jobs[filepath.Join(mirrorDest, local[k])] = id
			}
		}
		dests := make([]string, 0, len(jobs))
		for d := range jobs {
			dests = append(dests, d)
		}
		sort.Strings(dests)

		total := 0
		var failed error
		for _, dest := range dests {
			n, err := artwork.Mirror(ctx, st, jobs[dest], dest, cfg.MaxDepth)
			total += n
			if err != nil {
				logger.Warn("mirror incomplete", zap.String("dest", dest), zap.Error(err))
				failed = err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied %d files to %s\n", total, mirrorDest)
		return failed
	},
}

func init() {
	mirrorCmd.Flags().StringVar(&mirrorFolder, "folder", "", "folder id to copy (default all scope folders)")
	mirrorCmd.Flags().StringVar(&mirrorDest, "dest", "", "local directory")
	_ = mirrorCmd.MarkFlagRequired("dest")
	rootCmd.AddCommand(mirrorCmd)
}
