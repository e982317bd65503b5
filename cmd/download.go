// Package cmd implements the command-line interface for hlsget.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/hlsget-cli/hlsget/color"
	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/history"
	"github.com/hlsget-cli/hlsget/icon"
	"github.com/hlsget-cli/hlsget/key"
	"github.com/hlsget-cli/hlsget/pipeline"
	"github.com/hlsget-cli/hlsget/storage"
	"github.com/hlsget-cli/hlsget/style"
	"github.com/hlsget-cli/hlsget/util"
	"github.com/hlsget-cli/hlsget/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().StringP("output", "o", "", "Destination file, derived from the playlist name when empty")
	rootCmd.Flags().StringP("temp-dir", "d", "", "Scratch directory for segment files")
	rootCmd.Flags().BoolP("keep-temp", "k", false, "Keep the scratch directory after the download finishes")
	rootCmd.Flags().Int("max-depth", 0, "Maximum variant playlist nesting to follow")
	rootCmd.Flags().StringToStringP("header", "H", nil, "Extra request headers as key=value pairs")
	rootCmd.Flags().BoolP("yes", "y", false, "Overwrite an existing output file without asking")
	rootCmd.Flags().BoolP("report", "r", false, "Record the finished download in a structured report file")
	rootCmd.Flags().StringP("format", "f", "", "Report format: csv, json or jsonl")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(storage.Formats(), func(f storage.Format, _ int) string {
			return string(f)
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// download drives one full pipeline run from CLI flags to terminal output.
func download(cmd *cobra.Command, playlistURL string) {
	output, err := outputPath(cmd, playlistURL)
	handleErr(err)

	if !confirmOverwrite(cmd, output) {
		fmt.Printf("%s download cancelled\n", icon.Get(icon.Fail))
		return
	}

	cfg := pipeline.ConfigFromGlobals()
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = lo.Must(cmd.Flags().GetInt("max-depth"))
	}

	opts := pipeline.Options{
		URL:        playlistURL,
		OutputPath: output,
		Headers:    lo.Must(cmd.Flags().GetStringToString("header")),
		OnProgress: progressPrinter(),
	}
	if cmd.Flags().Changed("temp-dir") {
		opts.TempDir = mo.Some(lo.Must(cmd.Flags().GetString("temp-dir")))
	}
	if lo.Must(cmd.Flags().GetBool("keep-temp")) {
		opts.Cleanup = mo.Some(false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := pipeline.New(cfg).Run(ctx, opts)
	fmt.Println()
	handleErr(err)

	fmt.Printf(
		"%s saved %s to %s (%s, %d bytes)\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		style.Bold(util.FileStem(output)),
		style.Fg(color.Yellow)(output),
		util.Quantify(report.Segments, "segment", "segments"),
		report.Bytes,
	)

	if viper.GetBool(key.HistorySaveOnDownload) {
		if err := history.Save(history.FromReport(report)); err != nil {
			handleErr(fmt.Errorf("saving history: %w", err))
		}
	}

	if lo.Must(cmd.Flags().GetBool("report")) {
		handleErr(writeReport(cmd, report))
	}
}

// outputPath resolves the destination file, deriving a sanitized name from
// the playlist URL when no flag is given.
func outputPath(cmd *cobra.Command, playlistURL string) (string, error) {
	output := lo.Must(cmd.Flags().GetString("output"))
	if output == "" {
		stem := util.SanitizeFilename(util.FileStem(playlistURL))
		if stem == "" {
			stem = "download"
		}
		output = stem + ".mp4"
	}
	return filepath.Abs(output)
}

// confirmOverwrite asks before clobbering an existing output file, unless
// overwriting is enabled by flag or configuration.
func confirmOverwrite(cmd *cobra.Command, output string) bool {
	exists, err := filesystem.API().Exists(output)
	handleErr(err)

	if !exists || lo.Must(cmd.Flags().GetBool("yes")) || viper.GetBool(key.OutputOverwrite) {
		return true
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists, overwrite it?", filepath.Base(output)),
		Default: false,
	}
	handleErr(survey.AskOne(prompt, &confirmed))
	return confirmed
}

// progressPrinter returns an in-place terminal progress callback.
func progressPrinter() func(done, total int) {
	return func(done, total int) {
		fmt.Printf("\r%s downloading segments %d/%d", icon.Get(icon.Download), done, total)
	}
}

// writeReport appends the finished download to the configured report file.
func writeReport(cmd *cobra.Command, report *pipeline.Report) error {
	name := lo.Must(cmd.Flags().GetString("format"))
	if name == "" {
		name = viper.GetString(key.StorageFormat)
	}

	format, err := storage.ParseFormat(name)
	if err != nil {
		return err
	}

	dir := viper.GetString(key.StorageDir)
	if dir == "" {
		dir = where.Reports()
	}
	path := filepath.Join(dir, "downloads"+format.Extension())

	if !viper.GetBool(key.StorageAppend) {
		if exists, _ := filesystem.API().Exists(path); exists {
			if err := filesystem.API().Remove(path); err != nil {
				return err
			}
		}
	}

	writer, err := storage.New(format, path)
	if err != nil {
		return err
	}
	if err := writer.Write(report.Row()); err != nil {
		return err
	}

	fmt.Printf(
		"%s report written to %s\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		style.Faint(path),
	)
	return nil
}
