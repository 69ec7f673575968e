package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

// envBinding ties a global flag to the environment variables it defaults to.
type envBinding struct {
	flag string
	envs []string
}

var authBindings = []envBinding{
	{flag: "os-auth-url", envs: []string{"OS_AUTH_URL"}},
	{flag: "os-username", envs: []string{"OS_USERNAME"}},
	{flag: "os-password", envs: []string{"OS_PASSWORD"}},
	{flag: "os-tenant-name", envs: []string{"OS_TENANT_NAME", "OS_PROJECT_NAME"}},
	{flag: "os-region-name", envs: []string{"OS_REGION_NAME"}},
	{flag: "os-cacert", envs: []string{"OS_CACERT"}},
	{flag: "os-user-domain-name", envs: []string{"OS_USER_DOMAIN_NAME"}},
	{flag: "os-project-domain-name", envs: []string{"OS_PROJECT_DOMAIN_NAME"}},
	{flag: "insecure"},
}

// registerGlobalFlags adiciona as flags globais de autenticação e configuração.
func registerGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP("os-auth-url", "a", "", "Keystone Authentication URL (env: OS_AUTH_URL)")
	flags.StringP("os-username", "u", "", "Username for authentication (env: OS_USERNAME)")
	flags.StringP("os-password", "p", "", "Password for authentication (env: OS_PASSWORD)")
	flags.StringP("os-tenant-name", "t", "", "Tenant name for authentication (env: OS_TENANT_NAME)")
	flags.StringP("os-region-name", "r", "", "Region for authentication (env: OS_REGION_NAME)")
	flags.StringP("os-cacert", "c", "", "Path of CA TLS certificate(s) used to verify the remote server's certificate (env: OS_CACERT)")
	flags.BoolP("insecure", "k", false, "Explicitly allow \"insecure SSL\" (https) requests. The server's certificate will not be verified. Use with caution.")
	flags.String("os-user-domain-name", "Default", "User domain for authentication (env: OS_USER_DOMAIN_NAME)")
	flags.String("os-project-domain-name", "Default", "Project domain for authentication (env: OS_PROJECT_DOMAIN_NAME)")

	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("env-file", "e", "", "Path to an openrc file to load before reading OS_* variables")
	flags.Bool("debug", false, "Enable debug logging on stderr")
}

// bindAuthEnv makes every auth flag fall back to its environment variable.
// An explicitly passed flag always wins.
func bindAuthEnv(v *viper.Viper, flags *pflag.FlagSet) {
	for _, b := range authBindings {
		key := viperKey(b.flag)
		if err := v.BindPFlag(key, flags.Lookup(b.flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", b.flag, err))
		}
		if len(b.envs) > 0 {
			if err := v.BindEnv(append([]string{key}, b.envs...)...); err != nil {
				panic(fmt.Sprintf("binding env for %s: %v", b.flag, err))
			}
		}
	}
}

// resolveAuthArgs reads the auth parameters after env files have been loaded.
func resolveAuthArgs(v *viper.Viper) types.AuthArgs {
	return types.AuthArgs{
		AuthURL:           v.GetString(viperKey("os-auth-url")),
		Username:          v.GetString(viperKey("os-username")),
		Password:          v.GetString(viperKey("os-password")),
		TenantName:        v.GetString(viperKey("os-tenant-name")),
		RegionName:        v.GetString(viperKey("os-region-name")),
		CACert:            v.GetString(viperKey("os-cacert")),
		UserDomainName:    v.GetString(viperKey("os-user-domain-name")),
		ProjectDomainName: v.GetString(viperKey("os-project-domain-name")),
		Insecure:          v.GetBool(viperKey("insecure")),
	}
}

func viperKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
