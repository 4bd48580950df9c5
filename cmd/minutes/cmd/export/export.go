package export

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"minutes/internal/app"
	"minutes/internal/app/export"
)

var (
	outputFilePath string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "maximum rows to export, newest first")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transcriptions to excel",
	Long: `Export stored transcriptions to excel.

Writes the newest rows first, including transcript, speakers and summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		application, cleanup, err := app.InitializeApplication(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}
		defer cleanup()

		transcriptions, err := application.DAO.List(ctx, limit)
		if err != nil {
			return err
		}

		if err := export.ToExcel(transcriptions, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
