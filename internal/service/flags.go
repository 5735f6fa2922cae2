package service

import (
	"context"

	"github.com/betis-escocia/backend/internal/lib/flags"
)

type flagSource interface {
	All(ctx context.Context) map[string]bool
}

type FlagService struct {
	flags flagSource
}

func NewFlagService(f flagSource) *FlagService {
	return &FlagService{flags: f}
}

// Resolved returns every known flag. The admin flag only reads true for
// admins.
func (s *FlagService) Resolved(ctx context.Context, isAdmin bool) map[string]bool {
	out := s.flags.All(ctx)
	if !isAdmin {
		out[string(flags.Admin)] = false
	}
	return out
}
