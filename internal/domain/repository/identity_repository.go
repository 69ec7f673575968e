package repository

import (
	"context"

	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

// IdentityRepository establishes authenticated sessions with the identity service.
type IdentityRepository interface {
	Authenticate(ctx context.Context, args types.AuthArgs) (entity.Session, error)
}
