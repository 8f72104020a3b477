// Package feedback collects ratings for classes, instructors and studios and
// folds them into per-target statistics.
package feedback

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedbackService interface {
	Submit(ctx context.Context, in SubmitInput) (*models.Feedback, error)
	Aggregate(ctx context.Context, kind models.FeedbackType, targetID string) (models.FeedbackStats, error)
	ListForTarget(ctx context.Context, kind models.FeedbackType, targetID string) ([]models.Feedback, models.FeedbackStats, error)
}

type SubmitInput struct {
	UserID   string
	Type     models.FeedbackType
	TargetID string
	Rating   int
	Comment  string
}

type DefaultFeedbackService struct {
	Repo repository.Repository[models.Feedback]
	Now  func() time.Time
}

func NewFeedbackService(repo repository.Repository[models.Feedback]) *DefaultFeedbackService {
	return &DefaultFeedbackService{Repo: repo, Now: time.Now}
}

// FeedbackID derives the document id from the (user, type, target) tuple so
// a second submission collides with the first.
func FeedbackID(userID string, kind models.FeedbackType, targetID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(userID+"|"+string(kind)+"|"+targetID)).String()
}

func (s *DefaultFeedbackService) Submit(ctx context.Context, in SubmitInput) (*models.Feedback, error) {
	if !in.Type.Valid() {
		return nil, utils.Validation("type must be one of class, instructor, studio")
	}
	in.TargetID = strings.TrimSpace(in.TargetID)
	if in.TargetID == "" {
		return nil, utils.Validation("targetId is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, utils.Validation("rating must be between 1 and 5")
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	fb := models.Feedback{
		ID:        FeedbackID(in.UserID, in.Type, in.TargetID),
		UserID:    in.UserID,
		Type:      in.Type,
		TargetID:  in.TargetID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now.UTC(),
	}
	if err := s.Repo.Create(ctx, fb); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("you have already submitted feedback for this " + string(in.Type))
		}
		utils.GetLogger().Error("Failed to save feedback", zap.String("targetId", in.TargetID), zap.Error(err))
		return nil, utils.Internal("failed to save feedback", err)
	}
	return &fb, nil
}

func (s *DefaultFeedbackService) Aggregate(ctx context.Context, kind models.FeedbackType, targetID string) (models.FeedbackStats, error) {
	_, stats, err := s.ListForTarget(ctx, kind, targetID)
	return stats, err
}

// ListForTarget returns the target's feedback newest first, with its stats.
func (s *DefaultFeedbackService) ListForTarget(ctx context.Context, kind models.FeedbackType, targetID string) ([]models.Feedback, models.FeedbackStats, error) {
	if !kind.Valid() {
		return nil, models.FeedbackStats{}, utils.Validation("type must be one of class, instructor, studio")
	}
	if targetID == "" {
		return nil, models.FeedbackStats{}, utils.Validation("targetId is required")
	}

	items, err := s.Repo.Find(ctx, repository.Where("type", repository.Eq, kind).And("targetId", repository.Eq, targetID))
	if err != nil {
		return nil, models.FeedbackStats{}, utils.Internal("failed to load feedback", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, Fold(items), nil
}

// Fold computes count, average (two decimals, 0 when empty) and the 1..5
// distribution. Ratings outside 1..5 are ignored.
func Fold(items []models.Feedback) models.FeedbackStats {
	stats := models.FeedbackStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, fb := range items {
		if fb.Rating < 1 || fb.Rating > 5 {
			continue
		}
		stats.Count++
		stats.Distribution[fb.Rating]++
		sum += fb.Rating
	}
	if stats.Count > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Count)*100) / 100
	}
	return stats
}
