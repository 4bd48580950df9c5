package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"minutes/cmd/minutes/cmd/export"
	"minutes/cmd/minutes/cmd/serve"
	"minutes/cmd/minutes/cmd/transcribe"
	"minutes/cmd/minutes/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minutes",
	Short: "Meeting audio transcription and summarization service",
	Long: `A backend for turning meeting recordings into transcripts and minutes.
- serve runs the HTTP API
- transcribe processes a single file or object from the command line
- export dumps stored transcriptions to a spreadsheet`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
