package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lingocard/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lingocard [text]",
		Short: "Language-learning flashcard translator",
		Long: `lingocard translates captured foreign-language text and turns it
into flashcards.

It detects the script of the text, translates it via OpenAI, annotates
readings for scripts that need them (e.g. furigana for Japanese), and
tracks daily usage quotas per subscription tier.

Examples:
  lingocard 漢字です                # Translate a captured phrase
  lingocard --save 漢字です         # Translate and save as a flashcard
  lingocard --batch captures.txt    # Process multiple captures from file
  lingocard --scan photo.txt       # Process an OCR text dump (counts against the OCR quota)
  lingocard --anki                  # Export saved cards as an Anki deck`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.lingocard.yaml)")

	addLocalFlags(cmd.Flags(), flags)
	bindFlagsToViper(cmd)
}

func addLocalFlags(fs *pflag.FlagSet, flags *Flags) {
	defaultOutputDir := filepath.Join(DefaultStateDir(), "cards")
	defaultDBPath := filepath.Join(DefaultStateDir(), "quota.db")

	fs.StringVarP(&flags.OutputDir, "output", "o", defaultOutputDir, "Directory for saved cards")
	fs.StringVarP(&flags.TargetLang, "to", "t", flags.TargetLang, "Target language code for translation")
	fs.StringVar(&flags.ForcedLang, "force-lang", flags.ForcedLang, "Force the source language (code like ja, ru; auto to detect)")
	fs.StringVar(&flags.Tier, "tier", flags.Tier, "Subscription tier: FREE or PREMIUM")
	fs.BoolVarP(&flags.Save, "save", "s", false, "Save the translation as a flashcard (counts against the daily quota)")
	fs.StringVar(&flags.BatchFile, "batch", "", "Process captured texts from file (one per line)")
	fs.StringVar(&flags.ScanFile, "scan", "", "Process an OCR text dump file (counts against the OCR quota)")
	fs.BoolVar(&flags.SwipeRight, "swipe-right", false, "Record a known-card swipe for the streak counter")
	fs.BoolVar(&flags.SwipeLeft, "swipe-left", false, "Record an unknown-card swipe")
	fs.BoolVar(&flags.GenerateAnki, "anki", false, "Export saved cards as an Anki deck (APKG by default, use --anki-csv for CSV)")
	fs.BoolVar(&flags.AnkiCSV, "anki-csv", false, "Generate CSV format instead of APKG when using --anki")
	fs.StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	fs.StringVar(&flags.DBPath, "db", defaultDBPath, "Usage counter database path")
	fs.BoolVar(&flags.StrictQuota, "strict-quota", false, "Deny actions when the usage counter database fails (default is to allow)")
	fs.BoolVar(&flags.ResetCounters, "reset-counters", false, "Reset all usage counters")
	fs.BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	fs.BoolVar(&flags.ArchiveCards, "archive", false, "Archive the saved cards directory and start fresh")

	// OpenAI flags
	fs.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model used for translation")
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translate.target", cmd.Flags().Lookup("to"))
	viper.BindPFlag("translate.force_language", cmd.Flags().Lookup("force-lang"))
	viper.BindPFlag("subscription.tier", cmd.Flags().Lookup("tier"))
	viper.BindPFlag("quota.db_path", cmd.Flags().Lookup("db"))
	viper.BindPFlag("quota.strict", cmd.Flags().Lookup("strict-quota"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("anki.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lingocard")
	}

	// Environment variables
	viper.SetEnvPrefix("LINGOCARD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.api_key")
}
