package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/catalystcloud/separate-billing-go/internal/application/usecase"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
	"github.com/catalystcloud/separate-billing-go/pkg/version"
)

// UseCaseFactory builds the billing use case once flags, env and config have
// been resolved.
type UseCaseFactory func(
	ctx context.Context,
	cfg types.Config,
	auth types.AuthArgs,
	console types.ConsoleInterface,
) (*usecase.BillingUseCase, error)

// ConsoleFactory builds the console the command output is written to.
type ConsoleFactory func(out io.Writer) types.ConsoleInterface

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	env        *viper.Viper
	configRepo repository.ConfigRepository
	newUseCase UseCaseFactory
	newConsole ConsoleFactory
	version    string
	out        io.Writer
	errOut     io.Writer
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository) *CLIApp {
	app := &CLIApp{
		version:    versionStr,
		configRepo: configRepo,
		env:        viper.New(),
		out:        os.Stdout,
		errOut:     os.Stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "separate-billing",
		Short: "Check the cost of a customer's resources for the latest billing period",
		Long: "Script for Catalyst Cloud to check the total usage for this month.\n" +
			"Resources are attributed to a customer by a resource name prefix.",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "separate-billing version: %s\n" .Version}}`)

	registerGlobalFlags(rootCmd.PersistentFlags())
	bindAuthEnv(app.env, rootCmd.PersistentFlags())

	for _, def := range commandTable {
		rootCmd.AddCommand(app.buildCommand(def))
	}

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with a cancellable context.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetBillingUseCaseFactory sets how the billing use case is built.
func (app *CLIApp) SetBillingUseCaseFactory(factory UseCaseFactory) {
	app.newUseCase = factory
}

// SetConsoleFactory sets how the output console is built.
func (app *CLIApp) SetConsoleFactory(factory ConsoleFactory) {
	app.newConsole = factory
}

// SetOutput redirects standard and error output, mainly for tests.
func (app *CLIApp) SetOutput(out, errOut io.Writer) {
	app.out = out
	app.errOut = errOut
	app.rootCmd.SetOut(out)
	app.rootCmd.SetErr(errOut)
}

// SetArgs overrides os.Args[1:], mainly for tests.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}
