package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blorders/internal/pdfmerge"
	"blorders/internal/sheet"
)

var sheetParallel int

var mergeImagesCmd = &cobra.Command{
	Use:   "merge-images <src> <dst>",
	Short: "Lay out the PNG designs of a folder on 30 cm print sheets",
	Long: `PNG files of <src> are taken in name order, six per sheet. Landscape
designs are turned upright and every design is scaled to a height of 30 cm at
200 dpi; designs that would need more than 1.3x enlargement are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := sheet.Merge(cmd.Context(), args[0], args[1], sheet.Options{Parallel: sheetParallel, Logger: logger})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Merged %d designs\n", n)
		return nil
	},
}

var mergePDFCmd = &cobra.Command{
	Use:   "merge-pdf <src> <dst>",
	Short: "Concatenate every PDF below a folder into one document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, n, err := pdfmerge.Merge(args[0], args[1], logger)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No PDF files found")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Merged %d files into %s\n", n, out)
		return nil
	},
}

func init() {
	mergeImagesCmd.Flags().IntVar(&sheetParallel, "parallel", 0, "sheets rendered at once (default one per CPU)")
	rootCmd.AddCommand(mergeImagesCmd, mergePDFCmd)
}
