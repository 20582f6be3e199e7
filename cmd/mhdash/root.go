package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/student-mental-health-api/internal/models"
	"github.com/noah-isme/student-mental-health-api/internal/repository"
	"github.com/noah-isme/student-mental-health-api/pkg/logger"
)

const defaultDatasetPath = "./data/Student Mental health.csv"

// Global flag values.
var (
	verbose     bool
	noColor     bool
	datasetPath string
)

var cliLogger = zap.NewNop()

// rootCmd is the base command for mhdash.
var rootCmd = &cobra.Command{
	Use:   "mhdash",
	Short: "Inspect the student mental health survey offline",
	Long: `mhdash reads the survey CSV and prints the same chart aggregates the
dashboard API serves, without starting the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cliLogger = logger.NewCLI(verbose)
		color.NoColor = color.NoColor || noColor
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mhdash version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("mhdash %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&datasetPath, "dataset", "d", defaultDatasetPath, "path to the survey CSV")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadRecords(ctx context.Context) ([]models.StudentRecord, error) {
	repo := repository.NewStudentRecordRepository(datasetPath, cliLogger)
	records, err := repo.Load(ctx)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "mhdash: %v", err)
	}
	cliLogger.Debug("dataset loaded", zap.String("path", datasetPath), zap.Int("rows", len(records)))
	return records, nil
}

// recordSet serves already loaded rows to a chart adapter.
type recordSet []models.StudentRecord

func (r recordSet) Load(context.Context) ([]models.StudentRecord, error) {
	return r, nil
}
