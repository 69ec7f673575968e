package repository

import (
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	LoadEnvFile(filePath string) error
}
