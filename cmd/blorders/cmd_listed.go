package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blorders/internal/artwork"
	"blorders/internal/fulfil"
)

var (
	listedFolder string
	listedDest   string
	listedKind   string
)

var listedCmd = &cobra.Command{
	Use:   "listed <designs.csv>",
	Short: "Download the artwork of a list of design codes",
	Long: `Each row's first column is a DESIGN_ENDCODE such as PSY_LZ_TOARG_04C. The
design is searched below --folder and its sub-folders; when it is not found the
design name is shortened by its last segment and searched again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := artwork.Kind(listedKind)
		switch kind {
		case artwork.KindImage, artwork.KindDocument, artwork.KindNone:
		default:
			return fmt.Errorf("unknown kind %q", listedKind)
		}
		st, _, err := searchStore(cmd.Context())
		if err != nil {
			return err
		}
		d := fulfil.New(fulfil.Deps{Store: st, MaxDepth: cfg.MaxDepth, Metrics: mreg, Logger: logger})
		sum, err := d.Listed(cmd.Context(), args[0], fulfil.ListedOptions{Folder: listedFolder, Dest: listedDest, Kind: kind})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Designs:    %d\nDownloaded: %d\n", sum.Requested, sum.Downloaded)
		if len(sum.Missing) > 0 {
			fmt.Fprintf(w, "Missing:    %s\n", strings.Join(sum.Missing, ", "))
		}
		return nil
	},
}

func init() {
	listedCmd.Flags().StringVar(&listedFolder, "folder", "", "folder id searched with its sub-folders")
	listedCmd.Flags().StringVar(&listedDest, "dest", ".", "download directory")
	listedCmd.Flags().StringVar(&listedKind, "kind", string(artwork.KindImage), "file kind: image, document or empty for any")
	_ = listedCmd.MarkFlagRequired("folder")
	rootCmd.AddCommand(listedCmd)
}
