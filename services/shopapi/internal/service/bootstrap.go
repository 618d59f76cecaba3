package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/friendly_mart/pkg/hash"
	"github.com/Skotchmaster/friendly_mart/services/shopapi/internal/models"
)

// Bootstrap creates missing categories and, when a username and password
// are given, a staff account.
func (s *ShopService) Bootstrap(ctx context.Context, categories []string, adminUser, adminPassword string) error {
	for _, name := range categories {
		if err := s.Repo.EnsureCategory(ctx, strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	if adminUser == "" || adminPassword == "" {
		return nil
	}
	pw, err := hash.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	return s.Repo.EnsureStaff(ctx, &models.User{Username: adminUser, PasswordHash: pw, IsSuperuser: true})
}
