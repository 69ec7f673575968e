package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/billing"
	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/config"
	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/export"
	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/httpclient"
	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/identity"
	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/storage"
	"github.com/catalystcloud/separate-billing-go/internal/adapter/driving/cli"
	"github.com/catalystcloud/separate-billing-go/internal/application/usecase"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
	"github.com/catalystcloud/separate-billing-go/pkg/console"
	"github.com/catalystcloud/separate-billing-go/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.FormatVersion(), config.NewConfigRepository())
	app.SetBillingUseCaseFactory(newBillingUseCase)
	app.SetConsoleFactory(func(out io.Writer) types.ConsoleInterface {
		return console.NewConsoleWithWriter(out, term.IsTerminal(int(os.Stdout.Fd())))
	})

	// Executa o aplicativo
	err := app.ExecuteContext(ctx)
	if ctx.Err() != nil {
		fmt.Println("Terminating...")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ExitMessage(err))
		os.Exit(1)
	}
}

// newBillingUseCase wires the identity, billing, export and storage adapters.
func newBillingUseCase(
	ctx context.Context,
	cfg types.Config,
	auth types.AuthArgs,
	consoleImpl types.ConsoleInterface,
) (*usecase.BillingUseCase, error) {
	client, err := httpclient.New(httpclient.Options{
		Timeout:  cfg.Timeout(),
		CACert:   auth.CACert,
		Insecure: auth.Insecure,
	})
	if err != nil {
		return nil, err
	}

	var storageRepo repository.StorageRepository
	if cfg.S3.Bucket != "" {
		storageRepo, err = storage.NewS3Repository(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
	}

	return usecase.NewBillingUseCase(
		identity.NewKeystoneRepository(client),
		billing.NewDistilRepository(client, cfg.DistilURL, cfg.DistilRegion),
		export.NewExportRepository(),
		storageRepo,
		consoleImpl,
		cfg,
	), nil
}
