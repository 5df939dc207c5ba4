package services

import (
	"context"
	"fmt"

	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
)

// DefaultDisplayName greets users whose profile has no name.
const DefaultDisplayName = "Farmer"

// Dashboard summarizes a user's farm.
type Dashboard struct {
	DisplayName   string   `json:"displayName"`
	ParcelCount   int      `json:"parcelCount"`
	TotalHectares float64  `json:"totalHectares"`
	Crops         []string `json:"crops"`
}

// DashboardService builds the home screen summary.
type DashboardService interface {
	// Summary works without a profile; the greeting then falls back to DefaultDisplayName.
	Summary(ctx context.Context, userID string) (*Dashboard, error)
}

type dashboardService struct {
	profiles repository.ProfileRepository
	parcels  repository.ParcelRepository
	log      *logger.Logger
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(profiles repository.ProfileRepository, parcels repository.ParcelRepository, log *logger.Logger) DashboardService {
	return &dashboardService{profiles: profiles, parcels: parcels, log: log}
}

func (s *dashboardService) Summary(ctx context.Context, userID string) (*Dashboard, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load profile for dashboard", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	parcels, err := s.parcels.List(ctx, repository.ParcelScope{UserID: userID})
	if err != nil {
		s.log.Error("Failed to list parcels for dashboard", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to list parcels: %w", err)
	}

	summary := &Dashboard{
		DisplayName: profile.DisplayName(DefaultDisplayName),
		ParcelCount: len(parcels),
		Crops:       []string{},
	}

	// Crops are listed once each, in the order they first appear.
	seen := make(map[string]bool)
	for _, parcel := range parcels {
		summary.TotalHectares += parcel.SurfaceHectares
		for _, crop := range parcel.Crops {
			if !seen[crop] {
				seen[crop] = true
				summary.Crops = append(summary.Crops, crop)
			}
		}
	}

	return summary, nil
}
