package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/edusprout/edusprout/internal/models"
	"github.com/edusprout/edusprout/internal/progress"
	apperrors "github.com/edusprout/edusprout/pkg/errors"
)

// BookmarkDTO is the API-facing saved listing.
type BookmarkDTO struct {
	ID        string         `json:"id"`
	ItemID    string         `json:"item_id"`
	ItemType  string         `json:"item_type"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Location  string         `json:"location,omitempty"`
	Link      string         `json:"link,omitempty"`
	Date      string         `json:"date,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// SaveBookmarkInput describes the listing being saved. ItemID and ItemType
// form the registry identity; the rest is a display snapshot.
type SaveBookmarkInput struct {
	UserID   string
	ItemID   string
	ItemType string
	Title    string
	Subtitle string
	Location string
	Link     string
	Date     string
	Data     map[string]any
}

// ToggleResult reports the outcome of a bookmark toggle.
type ToggleResult struct {
	Bookmarked bool         `json:"bookmarked"`
	Bookmark   *BookmarkDTO `json:"bookmark,omitempty"`
}

// BookmarkService manages the per-user registry of saved jobs and
// scholarships. Identity is the composite (item id, item type), so the same
// id can be saved once as a job and once as a scholarship.
type BookmarkService struct {
	db       *gorm.DB
	progress *ProgressService
}

// NewBookmarkService constructs a BookmarkService. The progress service may
// be nil, in which case saves earn no XP.
func NewBookmarkService(db *gorm.DB, progressService *ProgressService) (*BookmarkService, error) {
	if db == nil {
		return nil, errors.New("bookmark service: db is required")
	}
	return &BookmarkService{db: db, progress: progressService}, nil
}

// ListForUser returns the user's bookmarks newest-first, optionally filtered
// by item type.
func (s *BookmarkService) ListForUser(ctx context.Context, userID, itemType string) ([]BookmarkDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("bookmark service: user id is required")
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if itemType = strings.TrimSpace(itemType); itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}

	var rows []models.Bookmark
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("bookmark service: list bookmarks: %w", err)
	}

	items := make([]BookmarkDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapBookmark(row))
	}
	return items, nil
}

// IsBookmarked reports whether the composite identity exists in the registry.
func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, itemID, itemType string) (bool, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("bookmark service: check bookmark: %w", err)
	}
	return count > 0, nil
}

// Add saves a listing. Saving an already-saved identity is a no-op that
// returns the existing entry.
func (s *BookmarkService) Add(ctx context.Context, input SaveBookmarkInput) (*BookmarkDTO, bool, error) {
	ctx = ensureContext(ctx)
	if err := validateBookmarkInput(&input); err != nil {
		return nil, false, err
	}

	bookmark := models.Bookmark{
		UserID:   input.UserID,
		ItemID:   input.ItemID,
		ItemType: input.ItemType,
		Title:    strings.TrimSpace(input.Title),
		Subtitle: strings.TrimSpace(input.Subtitle),
		Location: strings.TrimSpace(input.Location),
		Link:     strings.TrimSpace(input.Link),
		Date:     strings.TrimSpace(input.Date),
		Data:     encodeJSON(input.Data),
	}

	if err := s.db.WithContext(ctx).Create(&bookmark).Error; err != nil {
		if isUniqueConstraintError(err) {
			existing, loadErr := s.find(ctx, input.UserID, input.ItemID, input.ItemType)
			if loadErr != nil {
				return nil, false, loadErr
			}
			dto := mapBookmark(*existing)
			return &dto, false, nil
		}
		return nil, false, fmt.Errorf("bookmark service: save bookmark: %w", err)
	}

	if s.progress != nil {
		if _, _, err := s.progress.RecordActivity(ctx, input.UserID, progress.ActionSaveBookmark); err != nil {
			return nil, false, fmt.Errorf("bookmark service: record save action: %w", err)
		}
	}

	dto := mapBookmark(bookmark)
	return &dto, true, nil
}

// Remove deletes a saved listing. Removing an absent identity is a no-op.
func (s *BookmarkService) Remove(ctx context.Context, userID, itemID, itemType string) (bool, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return false, fmt.Errorf("bookmark service: remove bookmark: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Toggle flips the saved state of a listing and reports the new state.
func (s *BookmarkService) Toggle(ctx context.Context, input SaveBookmarkInput) (*ToggleResult, error) {
	ctx = ensureContext(ctx)
	if err := validateBookmarkInput(&input); err != nil {
		return nil, err
	}

	saved, err := s.IsBookmarked(ctx, input.UserID, input.ItemID, input.ItemType)
	if err != nil {
		return nil, err
	}

	if saved {
		if _, err := s.Remove(ctx, input.UserID, input.ItemID, input.ItemType); err != nil {
			return nil, err
		}
		return &ToggleResult{Bookmarked: false}, nil
	}

	dto, _, err := s.Add(ctx, input)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Bookmarked: true, Bookmark: dto}, nil
}

func (s *BookmarkService) find(ctx context.Context, userID, itemID, itemType string) (*models.Bookmark, error) {
	var row models.Bookmark
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bookmark service: load bookmark: %w", err)
	}
	return &row, nil
}

func validateBookmarkInput(input *SaveBookmarkInput) error {
	input.UserID = strings.TrimSpace(input.UserID)
	input.ItemID = strings.TrimSpace(input.ItemID)
	input.ItemType = strings.TrimSpace(input.ItemType)

	if input.UserID == "" {
		return errors.New("bookmark service: user id is required")
	}
	if input.ItemID == "" {
		return apperrors.NewBadRequest("item_id is required")
	}
	switch input.ItemType {
	case models.BookmarkTypeJob, models.BookmarkTypeScholarship:
		return nil
	default:
		return apperrors.NewBadRequest("item_type must be job or scholarship")
	}
}

func mapBookmark(row models.Bookmark) BookmarkDTO {
	return BookmarkDTO{
		ID:        row.ID,
		ItemID:    row.ItemID,
		ItemType:  row.ItemType,
		Title:     row.Title,
		Subtitle:  row.Subtitle,
		Location:  row.Location,
		Link:      row.Link,
		Date:      row.Date,
		Data:      decodeJSON(row.Data),
		CreatedAt: row.CreatedAt,
	}
}
