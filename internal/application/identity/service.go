// Package identity manages seller workspaces: creation, label display
// settings and the encrypted marketplace API token.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/identity"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/infrastructure/secrets"
)

// Service handles workspace operations
type Service struct {
	workspaces identity.WorkspaceRepository
	sealer     *secrets.Sealer
	logger     *zap.Logger
}

// NewService creates a new workspace Service
func NewService(workspaces identity.WorkspaceRepository, sealer *secrets.Sealer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{workspaces: workspaces, sealer: sealer, logger: logger}
}

// Create adds a workspace with every label line enabled
func (s *Service) Create(ctx context.Context, req CreateWorkspaceRequest) (*WorkspaceResponse, error) {
	name := strings.TrimSpace(req.Name)
	if _, err := s.workspaces.FindByName(ctx, name); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Workspace with this name already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check workspace name: %w", err)
	}

	workspace, err := identity.NewWorkspace(name)
	if err != nil {
		return nil, err
	}
	workspace.SellerName = strings.TrimSpace(req.SellerName)

	if err := s.workspaces.Save(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}

	s.logger.Info("workspace created",
		zap.String("workspace_id", workspace.ID.String()),
		zap.String("name", workspace.Name))

	return toWorkspaceResponse(workspace), nil
}

// List returns every workspace
func (s *Service) List(ctx context.Context) ([]WorkspaceResponse, error) {
	workspaces, err := s.workspaces.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	out := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		out[i] = *toWorkspaceResponse(&workspaces[i])
	}
	return out, nil
}

// Get returns one workspace
func (s *Service) Get(ctx context.Context, workspaceID uuid.UUID) (*WorkspaceResponse, error) {
	workspace, err := s.find(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return toWorkspaceResponse(workspace), nil
}

// UpdateSettings patches the seller name and label display toggles
func (s *Service) UpdateSettings(ctx context.Context, workspaceID uuid.UUID, req UpdateSettingsRequest) (*WorkspaceResponse, error) {
	workspace, err := s.find(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if req.SellerName != nil {
		workspace.SellerName = strings.TrimSpace(*req.SellerName)
	}
	toggles := []struct {
		value *bool
		dst   *bool
	}{
		{req.ShowEAN, &workspace.ShowEAN},
		{req.ShowGS1, &workspace.ShowGS1},
		{req.ShowTitle, &workspace.ShowTitle},
		{req.ShowColor, &workspace.ShowColor},
		{req.ShowSize, &workspace.ShowSize},
		{req.ShowMaterial, &workspace.ShowMaterial},
		{req.ShowCountry, &workspace.ShowCountry},
		{req.ShowSeller, &workspace.ShowSeller},
		{req.ShowArticle, &workspace.ShowArticle},
	}
	for _, t := range toggles {
		if t.value != nil {
			*t.dst = *t.value
		}
	}
	workspace.IncrementVersion()

	if err := s.workspaces.Save(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	return toWorkspaceResponse(workspace), nil
}

// SetToken seals and stores the marketplace API token
func (s *Service) SetToken(ctx context.Context, workspaceID uuid.UUID, req SetTokenRequest) error {
	workspace, err := s.find(ctx, workspaceID)
	if err != nil {
		return err
	}

	sealed, err := s.sealer.Seal(strings.TrimSpace(req.Token))
	if err != nil {
		return fmt.Errorf("failed to seal marketplace token: %w", err)
	}
	workspace.SetEncryptedToken(sealed)

	if err := s.workspaces.Save(ctx, workspace); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}

	s.logger.Info("marketplace token updated", zap.String("workspace_id", workspaceID.String()))
	return nil
}

// Delete removes a workspace
func (s *Service) Delete(ctx context.Context, workspaceID uuid.UUID) error {
	if _, err := s.find(ctx, workspaceID); err != nil {
		return err
	}
	return s.workspaces.Delete(ctx, workspaceID)
}

func (s *Service) find(ctx context.Context, workspaceID uuid.UUID) (*identity.Workspace, error) {
	workspace, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Workspace not found")
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return workspace, nil
}
