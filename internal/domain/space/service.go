package space

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/utils/idgen"
	"chathub/internal/utils/platformerrors"
)

// Service orchestrates space persistence and supplies the chat engine with
// system prompts and enrichment candidates.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService creates a space service.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "space_service").Logger(),
	}
}

// Create validates and persists a new space.
func (s *Service) Create(ctx context.Context, name, instruction string) (*Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"space name must not be empty", nil, "")
	}

	publicID, err := idgen.GenerateSpaceID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to generate space ID", err, "")
	}

	now := time.Now().UTC()
	sp := &Space{
		PublicID:    publicID,
		Name:        name,
		Instruction: strings.TrimSpace(instruction),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create space")
	}

	s.log.Info().Str("space_id", sp.PublicID).Str("name", sp.Name).Msg("space created")
	return sp, nil
}

// List returns all spaces.
func (s *Service) List(ctx context.Context) ([]Space, error) {
	spaces, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list spaces")
	}
	return spaces, nil
}

// Get returns one space by public ID.
func (s *Service) Get(ctx context.Context, publicID string) (*Space, error) {
	sp, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "space lookup failed")
	}
	return sp, nil
}

// Delete removes a space. Conversations keep their dangling reference; the
// engine treats an unresolvable space as no space.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if err := s.repo.Delete(ctx, publicID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete space")
	}
	return nil
}

// Candidates returns all spaces in the shape enrichment classifies against.
func (s *Service) Candidates(ctx context.Context) ([]chat.SpaceCandidate, error) {
	spaces, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]chat.SpaceCandidate, 0, len(spaces))
	for _, sp := range spaces {
		candidates = append(candidates, chat.SpaceCandidate{ID: sp.PublicID, Name: sp.Name})
	}
	return candidates, nil
}

// SystemPromptFor resolves the system prompt a space injects, empty when the
// space does not exist or has no instruction.
func (s *Service) SystemPromptFor(ctx context.Context, publicID string) string {
	if publicID == "" {
		return ""
	}
	sp, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		s.log.Warn().Err(err).Str("space_id", publicID).Msg("space lookup for system prompt failed")
		return ""
	}
	return sp.Instruction
}
