package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/flispi/landbank/internal/logger"
	"github.com/flispi/landbank/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump all stored property records",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")
}

func runExport(cmd *cobra.Command, args []string) error {
	initLogger()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	outFile := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	formatStr, _ := cmd.Flags().GetString("format")
	writer, err := output.NewWriter(outFile, output.Format(formatStr))
	if err != nil {
		logger.Error("failed to create output writer", "format", formatStr, "error", err)
		return err
	}

	props, err := st.List(context.Background())
	if err != nil {
		logger.Error("failed to list properties", "error", err)
		return err
	}
	for i := range props {
		if err := writer.Write(&props[i]); err != nil {
			logger.Error("failed to write record", "parcel_id", props[i].ParcelID, "error", err)
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	logger.Info("export complete", "records", len(props))
	return nil
}
