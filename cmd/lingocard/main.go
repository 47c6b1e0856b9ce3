package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/lingocard/internal/archive"
	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/models"
	"codeberg.org/snonux/lingocard/internal/processor"
)

func main() {
	flags := cli.NewFlags()
	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Handle --archive flag
	if flags.ArchiveCards {
		archivePath, err := archive.ArchiveCards(flags.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to archive cards: %w", err)
		}
		fmt.Printf("Cards directory archived to: %s\n", archivePath)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	proc, err := processor.NewProcessor(flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	if flags.ResetCounters {
		return proc.ResetCounters()
	}

	if flags.SwipeRight || flags.SwipeLeft {
		return proc.RecordSwipe(flags.SwipeRight)
	}

	switch {
	case flags.BatchFile != "":
		if err := proc.ProcessBatch(ctx); err != nil {
			return err
		}
	case flags.ScanFile != "":
		if err := proc.ProcessScanFile(ctx, flags.ScanFile); err != nil {
			return err
		}
	case len(args) > 0:
		if err := proc.ProcessText(ctx, args[0]); err != nil {
			return err
		}
	case !flags.GenerateAnki:
		return fmt.Errorf("please provide text to translate or use --batch, --scan or --anki")
	}

	// Generate Anki file if requested
	if flags.GenerateAnki {
		fmt.Printf("\nGenerating Anki import file...\n")
		outputPath, err := proc.GenerateAnkiFile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to generate Anki file: %v\n", err)
		} else {
			fmt.Printf("Anki package created: %s\n", outputPath)
		}
	}

	return nil
}
