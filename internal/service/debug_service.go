package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/repository"
)

// DebugService exposes token-gated diagnostics.
type DebugService interface {
	Overview(ctx context.Context, token string) (dto.DebugOverviewResponse, error)
	ParentChild(ctx context.Context, token string) ([]dto.ParentChildResponse, error)
}

type debugService struct {
	diagnostics repository.DiagnosticsRepository
	links       repository.ParentChildRepository
	driver      string
	enabled     bool
	token       string
	logger      zerolog.Logger
}

// NewDebugService constructs the diagnostics service.
func NewDebugService(diagnostics repository.DiagnosticsRepository, links repository.ParentChildRepository, driver string, enabled bool, token string, logger zerolog.Logger) DebugService {
	return &debugService{
		diagnostics: diagnostics,
		links:       links,
		driver:      driver,
		enabled:     enabled,
		token:       token,
		logger:      logger.With().Str("component", "debug_service").Logger(),
	}
}

func (s *debugService) Overview(ctx context.Context, token string) (dto.DebugOverviewResponse, error) {
	if err := s.authorize(token); err != nil {
		return dto.DebugOverviewResponse{}, err
	}

	counts, err := s.diagnostics.Counts(ctx)
	if err != nil {
		return dto.DebugOverviewResponse{}, err
	}
	return dto.DebugOverviewResponse{Driver: s.driver, Counts: counts}, nil
}

func (s *debugService) ParentChild(ctx context.Context, token string) ([]dto.ParentChildResponse, error) {
	if err := s.authorize(token); err != nil {
		return nil, err
	}

	links, err := s.links.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ParentChildResponse, 0, len(links))
	for _, link := range links {
		responses = append(responses, dto.ParentChildResponse{
			ID:             link.ID,
			ParentID:       link.ParentID,
			ParentUsername: link.Parent.Username,
			StudentID:      link.StudentID,
			StudentName:    link.Student.Name,
			CreatedAt:      link.CreatedAt,
		})
	}
	return responses, nil
}

func (s *debugService) authorize(token string) error {
	if !s.enabled {
		return ErrDebugDisabled
	}
	expected := strings.TrimSpace(s.token)
	provided := strings.TrimSpace(token)
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		s.logger.Warn().Msg("rejected diagnostics request")
		return ErrDebugUnauthorized
	}
	return nil
}
