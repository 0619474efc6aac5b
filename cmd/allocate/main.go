package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"contractalloc/adapters/excel"
	"contractalloc/adapters/gateway/process"
	"contractalloc/app"
	"contractalloc/domain/core"
	"contractalloc/domain/mapping"
	"contractalloc/internal"
	"contractalloc/internal/config"
	"contractalloc/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.CodeFor(err), err)
		os.Exit(1)
	}
}

type options struct {
	logLevel string
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "allocate",
		Short:         "Move contract allocation data between a workbook and the optimization model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: .env not loaded: %v\n", err)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (ERROR, WARN, INFO, DEBUG, TRACE)")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newCheckCmd(opts),
		newMappingsCmd(),
	)
	return rootCmd
}

// setup loads configuration and builds the service shared by run and check.
func setup(opts *options) (*config.Config, *app.AllocationService, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := internal.NewLogger(internal.ParseLogLevel(level))

	excelConfig := excel.DefaultExcelConfig()
	excelConfig.OutputFind = cfg.Data.OutputFind
	excelConfig.OutputReplace = cfg.Data.OutputReplace

	service := app.NewAllocationService(
		excel.NewLoader(excelConfig, logger),
		excel.NewWriter(logger),
		excelConfig,
		logger,
	)
	return cfg, service, logger, nil
}

func inputPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Data.InputFile
}

// requireInput fails fast on a missing input workbook, before any engine setup.
func requireInput(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &core.MissingFileError{Path: path}
	}
	return nil
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [input.xlsx]",
		Short: "Load the input workbook, solve the model and write the solution workbook",
		Long: `Load the Producers, Contracts and Production Costs sheets, push them into the model,
run its solve procedure and write "Allocation per Producer" and "Contract Allocation"
to the solution workbook next to the input (DefaultData.xlsx -> DefaultData_Solution.xlsx).

Example: allocate run AIMMS-project/DefaultData.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, service, logger, err := setup(opts)
			if err != nil {
				return err
			}
			input := inputPath(cfg, args)
			if err := requireInput(input); err != nil {
				return err
			}
			if err := cfg.RequireEngine(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			// keep stdout clean for the JSON report
			banner := out
			if opts.asJSON {
				banner = cmd.ErrOrStderr()
			}
			cwd, _ := os.Getwd()
			fmt.Fprintf(banner, "Start: %s cwd: %s\n", time.Now().Format(time.DateTime), cwd)

			gateway, err := process.New(process.Config{
				Command:       cfg.Engine.Command,
				Args:          cfg.Engine.Args,
				ExchangeDir:   cfg.Engine.ExchangeDir,
				ProjectFile:   cfg.Engine.ProjectFile,
				IdentifierSet: cfg.Engine.IdentifierSet,
				Procedure:     cfg.Engine.Procedure,
				Timeout:       cfg.Engine.Timeout,
			}, mapping.ModelVocabulary, logger)
			if err != nil {
				return errors.ExternalServiceError("engine", err)
			}
			defer func() {
				if err := gateway.Close(); err != nil {
					logger.Warn("engine cleanup failed: %v", err)
				}
			}()

			report, err := service.Run(cmd.Context(), input, gateway)
			if err != nil {
				return err
			}

			if err := printRunReport(out, report, opts.asJSON); err != nil {
				return err
			}
			fmt.Fprintf(banner, "finish: %s cwd: %s\n", time.Now().Format(time.DateTime), cwd)
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [input.xlsx]",
		Short: "Validate that the input workbook has every required sheet and column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, service, _, err := setup(opts)
			if err != nil {
				return err
			}

			report, err := service.Check(cmd.Context(), inputPath(cfg, args))
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "SHEET\tROWS\n")
			for _, s := range report.Sheets {
				fmt.Fprintf(w, "%s\t%d\n", s.Name, s.Rows)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is ready for a run\n", report.InputPath)
			return nil
		},
	}
}

func newMappingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mappings",
		Short: "Print the column to identifier mappings and the model vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printMappings(cmd.OutOrStdout())
		},
	}
}

func printMappings(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SHEET\tCOLUMN\tIDENTIFIER\n")
	for _, in := range mapping.Inputs() {
		for _, p := range in.Mapping.Pairs() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", in.Sheet, p.From, p.To)
		}
	}
	for _, o := range mapping.Outputs() {
		for _, p := range o.Mapping.Pairs() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", o.Sheet, p.To, p.From)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Vocabulary:")
	for _, id := range mapping.ModelVocabulary.Sorted() {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return nil
}

func printRunReport(out io.Writer, report *app.RunReport, asJSON bool) error {
	if asJSON {
		return writeJSON(out, report)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Run\t%s\n", report.RunID)
	for _, s := range report.Submitted {
		fmt.Fprintf(w, "Submitted\t%s\t%d rows\n", s.Name, s.Rows)
	}
	for _, s := range report.Written {
		fmt.Fprintf(w, "Written\t%s\t%d rows\n", s.Name, s.Rows)
	}
	fmt.Fprintf(w, "Total generation\t%g\n", report.TotalGeneration)
	fmt.Fprintf(w, "Solution\t%s\n", report.OutputPath)
	fmt.Fprintf(w, "Duration\t%s\n", report.Duration.Round(time.Millisecond))
	return w.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
