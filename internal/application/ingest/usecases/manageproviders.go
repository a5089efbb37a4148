package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/orris-inc/plansearch/internal/domain/catalog"
	apperrors "github.com/orris-inc/plansearch/internal/shared/errors"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

type CreateProviderCommand struct {
	Name        string
	URL         string
	Description string
}

// ManageProvidersUseCase registers providers and switches their polling on
// and off.
type ManageProvidersUseCase struct {
	repo   catalog.Repository
	logger logger.Interface
}

func NewManageProvidersUseCase(repo catalog.Repository, logger logger.Interface) *ManageProvidersUseCase {
	return &ManageProvidersUseCase{repo: repo, logger: logger}
}

func (uc *ManageProvidersUseCase) Create(ctx context.Context, cmd CreateProviderCommand) (*catalog.Provider, error) {
	provider, err := catalog.NewProvider(cmd.Name, cmd.URL, cmd.Description)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.CreateProvider(ctx, provider); err != nil {
		return nil, apperrors.NewInternalError("failed to create provider", err.Error())
	}
	return provider, nil
}

func (uc *ManageProvidersUseCase) List(ctx context.Context) ([]*catalog.Provider, error) {
	providers, err := uc.repo.ListProviders(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list providers", err.Error())
	}
	return providers, nil
}

// SetActive enables or disables a provider by id. Disabled providers keep
// their data; they are just no longer polled.
func (uc *ManageProvidersUseCase) SetActive(ctx context.Context, id string, active bool) error {
	providerID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NewValidationError("invalid provider id", id)
	}

	if err := uc.repo.SetProviderActive(ctx, providerID, active); err != nil {
		if errors.Is(err, catalog.ErrProviderNotFound) {
			return apperrors.NewNotFoundError("provider not found", id)
		}
		return apperrors.NewInternalError("failed to update provider", err.Error())
	}

	uc.logger.Infow("provider updated", "provider_id", providerID, "active", active)
	return nil
}
