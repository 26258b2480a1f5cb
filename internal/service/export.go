package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
)

const (
	exportURLExpiry = time.Hour
	exportFirstDay  = "0001-01-01"
	exportLastDay   = "9999-12-31"
)

// ObjectStore is where finished exports are uploaded. config.S3Config implements it.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

// UserExport is the document a user downloads
type UserExport struct {
	ExportedAt    time.Time             `json:"exported_at"`
	User          *models.User          `json:"user"`
	Profile       *models.UserProfile   `json:"profile"`
	Rewards       *models.Reward        `json:"rewards"`
	Meals         []models.MealLog      `json:"meals"`
	DailyLogs     []models.DailyLog     `json:"daily_logs"`
	ShoppingLists []models.ShoppingList `json:"shopping_lists"`
}

type ExportService struct {
	repos   *repository.Repositories
	rewards *RewardService
	store   ObjectStore
	now     Clock
}

var _ IExportService = (*ExportService)(nil)

// NewExportService creates the service. Without a store every export fails with ErrExportUnavailable.
func NewExportService(repos *repository.Repositories, rewards *RewardService, store ObjectStore, now Clock) *ExportService {
	return &ExportService{repos: repos, rewards: rewards, store: store, now: now.orDefault()}
}

// Export writes everything stored about the user to object storage and
// returns a short-lived download link
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) (*types.ExportResponse, error) {
	if s.store == nil {
		return nil, ErrExportUnavailable
	}

	doc, err := s.collect(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, wrapOp("encode export", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, doc.ExportedAt.UTC().Format("20060102T150405Z"))
	if err := s.store.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, wrapOp("upload export", err)
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, exportURLExpiry)
	if err != nil {
		return nil, wrapOp("sign export URL", err)
	}

	log.Printf("[Export] Exported %d bytes for user %s to %s", len(body), userID, key)
	return &types.ExportResponse{
		Key:         key,
		DownloadURL: url,
		ExpiresIn:   int(exportURLExpiry.Seconds()),
	}, nil
}

func (s *ExportService) collect(ctx context.Context, userID uuid.UUID) (*UserExport, error) {
	doc := &UserExport{ExportedAt: s.now()}
	var err error

	if doc.User, err = s.repos.Users.FindByID(ctx, userID); err != nil {
		return nil, wrapOp("load user", err)
	}
	if doc.Profile, err = s.repos.Profiles.FindByUserID(ctx, userID); err != nil {
		return nil, wrapOp("load profile", err)
	}
	if doc.Rewards, err = s.rewards.GetRewards(ctx, userID); err != nil {
		return nil, err
	}
	if doc.Meals, err = s.repos.Meals.FindByDateRange(ctx, userID, exportFirstDay, exportLastDay); err != nil {
		return nil, wrapOp("load meals", err)
	}
	if doc.DailyLogs, err = s.repos.DailyLogs.FindByDateRange(ctx, userID, exportFirstDay, exportLastDay); err != nil {
		return nil, wrapOp("load daily logs", err)
	}
	if doc.ShoppingLists, err = s.repos.ShoppingLists.FindAllByUserID(ctx, userID); err != nil {
		return nil, wrapOp("load shopping lists", err)
	}
	return doc, nil
}
