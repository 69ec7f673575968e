package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/config"
	"github.com/catalystcloud/separate-billing-go/internal/application/usecase"
	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
	"github.com/catalystcloud/separate-billing-go/pkg/console"
)

var authEnvVars = []string{
	"OS_AUTH_URL", "OS_USERNAME", "OS_PASSWORD", "OS_TENANT_NAME", "OS_PROJECT_NAME",
	"OS_REGION_NAME", "OS_CACERT", "OS_USER_DOMAIN_NAME", "OS_PROJECT_DOMAIN_NAME",
}

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, name := range authEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

type stubIdentity struct{}

func (stubIdentity) Authenticate(context.Context, types.AuthArgs) (entity.Session, error) {
	return entity.Session{Token: "tok"}, nil
}

type stubBilling struct{}

func (stubBilling) ListInvoices(context.Context, entity.Session, repository.InvoiceQuery) (entity.InvoiceCollection, error) {
	return entity.InvoiceCollection{Invoices: []entity.Invoice{{
		Period: "2021-03",
		Details: []entity.Category{{Name: "compute", Products: []entity.Product{{
			Name: "instance",
			Resources: []entity.ResourceCost{
				{ResourceName: "acme-vm1", Rate: 0.05, Quantity: 250, Unit: "hour", Cost: 12.5},
				{ResourceName: "other-vm", Rate: 0.02, Quantity: 250, Unit: "hour", Cost: 5},
			},
		}}}},
	}}}, nil
}

type testApp struct {
	app    *CLIApp
	out    *bytes.Buffer
	errOut *bytes.Buffer
	auth   *types.AuthArgs
	cfg    *types.Config
}

func newTestApp(t *testing.T, args ...string) *testApp {
	t.Helper()
	pterm.DisableColor()
	color.NoColor = true

	ta := &testApp{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	ta.app = NewCLIApp("1.0.0 (test)", config.NewConfigRepository())
	ta.app.SetOutput(ta.out, ta.errOut)
	ta.app.SetConsoleFactory(func(out io.Writer) types.ConsoleInterface {
		return console.NewConsoleWithWriter(out, false)
	})
	ta.app.SetBillingUseCaseFactory(func(_ context.Context, cfg types.Config, auth types.AuthArgs, c types.ConsoleInterface) (*usecase.BillingUseCase, error) {
		ta.auth = &auth
		ta.cfg = &cfg
		return usecase.NewBillingUseCase(stubIdentity{}, stubBilling{}, nil, nil, c, cfg), nil
	})
	ta.app.SetArgs(args)
	return ta
}

func TestShow_MissingAuthURL(t *testing.T) {
	// Given
	clearAuthEnv(t)
	ta := newTestApp(t, "show", "--prefix", "acme-")

	// When
	err := ta.app.Execute()

	// Then
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMissingAuthURL))
	assert.Equal(t, "Please source your rc file first.", ExitMessage(err))
	assert.Nil(t, ta.auth)
}

func TestShow_ReadsAuthFromEnvironment(t *testing.T) {
	// Given
	clearAuthEnv(t)
	t.Setenv("OS_AUTH_URL", "https://api.example:5000/v3")
	t.Setenv("OS_USERNAME", "bob")
	t.Setenv("OS_PASSWORD", "secret")
	t.Setenv("OS_PROJECT_NAME", "acme-project")
	ta := newTestApp(t, "show", "--prefix", "acme-")

	// When
	err := ta.app.Execute()

	// Then
	require.NoError(t, err)
	require.NotNil(t, ta.auth)
	assert.Equal(t, "https://api.example:5000/v3", ta.auth.AuthURL)
	assert.Equal(t, "bob", ta.auth.Username)
	assert.Equal(t, "secret", ta.auth.Password)
	assert.Equal(t, "acme-project", ta.auth.TenantName)
	assert.Equal(t, "Default", ta.auth.UserDomainName)

	out := ta.out.String()
	assert.Contains(t, out, "acme-vm1")
	assert.NotContains(t, out, "other-vm")
	assert.Contains(t, out, "Total cost of customer [acme-] for the month of [2021-03] is : $12.50")
}

func TestShow_FlagsOverrideEnvironment(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("OS_AUTH_URL", "https://from-env")
	t.Setenv("OS_TENANT_NAME", "env-tenant")
	ta := newTestApp(t, "-a", "https://from-flag", "-k", "show", "--prefix", "acme-")

	err := ta.app.Execute()

	require.NoError(t, err)
	assert.Equal(t, "https://from-flag", ta.auth.AuthURL)
	assert.Equal(t, "env-tenant", ta.auth.TenantName)
	assert.True(t, ta.auth.Insecure)
}

func TestShow_RequiresPrefix(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("OS_AUTH_URL", "https://keystone")
	ta := newTestApp(t, "show")

	err := ta.app.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix")
	assert.Nil(t, ta.auth)
}

func TestShow_LoadsEnvAndConfigFiles(t *testing.T) {
	// Given
	clearAuthEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "openrc.sh")
	require.NoError(t, os.WriteFile(envFile, []byte("export OS_AUTH_URL=https://from-file:5000\nexport OS_USERNAME=alice\n"), 0o644))
	configFile := filepath.Join(dir, "billing.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("distil_url = \"https://rating.example\"\nlookback_months = 4\n"), 0o644))

	ta := newTestApp(t, "--env-file", envFile, "--config-file", configFile,
		"show", "--prefix", "acme-", "--upload-bucket", "reports")

	// When
	err := ta.app.Execute()

	// Then
	require.NoError(t, err)
	assert.Equal(t, "https://from-file:5000", ta.auth.AuthURL)
	assert.Equal(t, "alice", ta.auth.Username)
	assert.Equal(t, "https://rating.example", ta.cfg.DistilURL)
	assert.Equal(t, 4, ta.cfg.LookbackMonths)
	assert.Equal(t, types.DefaultDistilRegion, ta.cfg.DistilRegion)
	assert.Equal(t, "reports", ta.cfg.S3.Bucket)
}

func TestShow_ConfigFileError(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("OS_AUTH_URL", "https://keystone")
	ta := newTestApp(t, "--config-file", filepath.Join(t.TempDir(), "missing.yaml"), "show", "--prefix", "acme-")

	err := ta.app.Execute()

	require.Error(t, err)
	assert.Contains(t, ExitMessage(err), "Error: error accessing config file")
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp(t, "version")

	err := ta.app.Execute()

	require.NoError(t, err)
	assert.Contains(t, ta.out.String(), "separate-billing (v1.0.0 (test))")
}

func TestNoArgumentsPrintsHelp(t *testing.T) {
	ta := newTestApp(t)

	err := ta.app.Execute()

	require.NoError(t, err)
	assert.Contains(t, ta.out.String(), "show")
	assert.Contains(t, ta.out.String(), "--os-auth-url")
}
