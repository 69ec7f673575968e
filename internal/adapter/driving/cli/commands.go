package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/catalystcloud/separate-billing-go/internal/shared/logging"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
	"github.com/catalystcloud/separate-billing-go/pkg/console"
)

// commandDef describes one subcommand: its flags and its handler.
type commandDef struct {
	Use     string
	Short   string
	Long    string
	Args    cobra.PositionalArgs
	Flags   func(flags *pflag.FlagSet)
	Require []string
	Run     func(app *CLIApp, cmd *cobra.Command, args []string) error
}

var commandTable = []commandDef{
	{
		Use:   "show",
		Short: "Get separate billing based on the given customer prefix.",
		Long: "Get separate billing based on the given customer prefix.\n\n" +
			"Fetches the invoices of the last months and prints every resource of the\n" +
			"latest invoice whose name starts with the prefix, with the total cost.",
		Args: cobra.NoArgs,
		Flags: func(flags *pflag.FlagSet) {
			flags.String("prefix", "", "A prefix for a particular customer to get the cost.")
			flags.String("period", "", "Billing period key to report on instead of the latest invoice")
			flags.String("project-id", "", "Project to query invoices for (default: the authenticated project)")
			flags.Int("months", 0, "Number of months before the current one to fetch invoices for (default 2)")
			flags.Bool("trend", false, "Display the customer's cost for every fetched period as bars")
			flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
			flags.StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf (default csv)")
			flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
			flags.String("upload-bucket", "", "Upload exported reports to this S3-compatible bucket")
		},
		Require: []string{"prefix"},
		Run:     runShow,
	},
	{
		Use:   "version",
		Short: "Print version information.",
		Args:  cobra.NoArgs,
		Run:   runVersion,
	},
}

// buildCommand transforma uma entrada da tabela em um comando cobra.
func (app *CLIApp) buildCommand(def commandDef) *cobra.Command {
	run := def.Run
	cmd := &cobra.Command{
		Use:   def.Use,
		Short: def.Short,
		Long:  def.Long,
		Args:  def.Args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, cmd, args)
		},
	}
	if def.Flags != nil {
		def.Flags(cmd.Flags())
	}
	for _, name := range def.Require {
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.Flags().SortFlags = false
	return cmd
}

// parseShowArgs parses the show flags into a ShowArgs struct.
func parseShowArgs(cmd *cobra.Command, cfg types.Config) (types.ShowArgs, error) {
	flags := cmd.Flags()
	prefix, _ := flags.GetString("prefix")
	period, _ := flags.GetString("period")
	projectID, _ := flags.GetString("project-id")
	months, _ := flags.GetInt("months")
	trend, _ := flags.GetBool("trend")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	uploadBucket, _ := flags.GetString("upload-bucket")

	if prefix == "" {
		return types.ShowArgs{}, errors.New("--prefix must not be empty")
	}

	if dir == "" {
		dir = cfg.Dir
	}
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return types.ShowArgs{}, err
		}
		dir = absDir
	}

	return types.ShowArgs{
		Prefix:         prefix,
		Period:         period,
		ProjectID:      projectID,
		LookbackMonths: months,
		Trend:          trend,
		ReportName:     reportName,
		ReportType:     reportType,
		Dir:            dir,
		UploadBucket:   uploadBucket,
	}, nil
}

// loadConfig applies the env file and the config file named on the command line.
func (app *CLIApp) loadConfig(cmd *cobra.Command) (types.Config, error) {
	flags := cmd.Flags()
	envFile, _ := flags.GetString("env-file")
	configFile, _ := flags.GetString("config-file")

	if envFile != "" {
		if err := app.configRepo.LoadEnvFile(envFile); err != nil {
			return types.Config{}, err
		}
	}

	cfg := types.Config{}
	if configFile != "" {
		loaded, err := app.configRepo.LoadConfigFile(configFile)
		if err != nil {
			return types.Config{}, err
		}
		cfg = *loaded
	}
	return cfg.WithDefaults(), nil
}

func runShow(app *CLIApp, cmd *cobra.Command, _ []string) error {
	cfg, err := app.loadConfig(cmd)
	if err != nil {
		return err
	}

	auth := resolveAuthArgs(app.env)
	if auth.AuthURL == "" {
		return types.ErrMissingAuthURL
	}

	showArgs, err := parseShowArgs(cmd, cfg)
	if err != nil {
		return err
	}
	if showArgs.UploadBucket != "" {
		cfg.S3.Bucket = showArgs.UploadBucket
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger := logging.New(app.errOut, debug)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx)

	if app.newUseCase == nil {
		return errors.New("billing use case is not configured")
	}
	uc, err := app.newUseCase(ctx, cfg, auth, app.console())
	if err != nil {
		return err
	}

	return uc.ShowCustomerCost(ctx, auth, showArgs)
}

func runVersion(app *CLIApp, _ *cobra.Command, _ []string) error {
	displayWelcomeBanner(app.out, app.version)
	return nil
}

func (app *CLIApp) console() types.ConsoleInterface {
	if app.newConsole != nil {
		return app.newConsole(app.out)
	}
	return console.NewConsoleWithWriter(app.out, app.out == os.Stdout)
}

// MissingAuthMessage is printed when no identity service URL is available.
const MissingAuthMessage = "Please source your rc file first."

// ExitMessage maps a command error to the message printed before exiting.
func ExitMessage(err error) string {
	if errors.Is(err, types.ErrMissingAuthURL) {
		return MissingAuthMessage
	}
	return fmt.Sprintf("Error: %v", err)
}
