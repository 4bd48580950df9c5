package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"minutes/internal/api/v1/dto"
	"minutes/internal/app"
	"minutes/internal/app/storage"
)

var (
	inputPath  string
	language   string
	uploadOnly bool
	summarize  bool
)

func init() {
	Cmd.Flags().StringVarP(&inputPath, "file", "f", "", "local audio file or s3:// URI")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "language hint (empty enables detection)")
	Cmd.Flags().BoolVar(&uploadOnly, "upload-only", false, "store the artifact without transcribing")
	Cmd.Flags().BoolVarP(&summarize, "summarize", "s", false, "generate a summary after transcribing")

	Cmd.MarkFlagRequired("file")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe a single recording from the command line",
	Long: `Transcribe a single recording from the command line.

Accepts a local file or an s3:// URI already in the input bucket. The result
is stored the same way the HTTP API stores it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		application, cleanup, err := app.InitializeApplication(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}
		defer cleanup()

		svc := application.Container.TranscriptionService

		var resp *dto.TranscriptionResponse
		if storage.IsURI(inputPath) {
			_, key, err := storage.ParseURI(inputPath)
			if err != nil {
				return err
			}
			if resp, err = svc.Trigger(ctx, key, !uploadOnly); err != nil {
				return err
			}
		} else {
			if _, err := os.Stat(inputPath); err != nil {
				return fmt.Errorf("input file not found: %w", err)
			}
			if resp, err = svc.UploadAndTranscribe(ctx, inputPath, filepath.Base(inputPath), !uploadOnly, language); err != nil {
				return err
			}
		}

		if err := printJSON(resp); err != nil {
			return err
		}

		if summarize {
			summary, err := svc.Summarize(ctx, resp.ID, language, 0.3)
			if err != nil {
				return err
			}
			return printJSON(summary)
		}
		return nil
	},
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
