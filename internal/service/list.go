package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"mediashelf/internal/model"
	"mediashelf/internal/repository"
)

// DefaultPageSize is the number of media entries served per list page.
const DefaultPageSize = 28

// ListService handles business logic for user-owned lists.
type ListService struct {
	db        *sqlx.DB
	userRepo  repository.UserRepository
	listRepo  repository.ListRepository
	mediaRepo repository.MediaRepository
	guard     *OwnershipGuard
	enricher  *Enricher
}

func NewListService(db *sqlx.DB, userRepo repository.UserRepository, listRepo repository.ListRepository, mediaRepo repository.MediaRepository, guard *OwnershipGuard, enricher *Enricher) *ListService {
	return &ListService{
		db:        db,
		userRepo:  userRepo,
		listRepo:  listRepo,
		mediaRepo: mediaRepo,
		guard:     guard,
		enricher:  enricher,
	}
}

// Create adds a new list for the user.
func (s *ListService) Create(ctx context.Context, userID int64, req *model.CreateListRequest) (*model.List, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.ErrListTitleRequired
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	list := &model.List{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.listRepo.Create(ctx, tx, list); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit list creation: %w", err)
	}

	return list, nil
}

// GetByUser returns the user's lists in creation order.
func (s *ListService) GetByUser(ctx context.Context, userID int64) ([]model.List, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.listRepo.GetByUser(ctx, userID)
}

// GetListWithItems serves one page of the list's media, enriched with provider
// metadata. Only the requested page is enriched, never the whole collection.
// Pages outside the collection come back empty with the same pagination info.
func (s *ListService) GetListWithItems(ctx context.Context, userID, listID int64, page int) (*model.ListPage, error) {
	list, err := s.guard.Verify(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}

	total, err := s.mediaRepo.CountByList(ctx, listID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * DefaultPageSize
	items, err := s.mediaRepo.GetPageByList(ctx, listID, offset, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	enriched := s.enricher.EnrichPage(ctx, items, false)

	return &model.ListPage{
		List:  *list,
		Items: enriched,
		Pagination: model.Pagination{
			CurrentPage: page,
			PageSize:    DefaultPageSize,
			TotalItems:  total,
			TotalPages:  (total + DefaultPageSize - 1) / DefaultPageSize,
		},
	}, nil
}

// Update edits the list's title and/or description.
func (s *ListService) Update(ctx context.Context, userID, listID int64, req *model.UpdateListRequest) (*model.List, error) {
	if _, err := s.guard.Verify(ctx, userID, listID); err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, model.ErrListTitleRequired
	}

	return s.listRepo.Update(ctx, listID, req.Title, req.Description)
}

// Delete removes the list and all of its media entries in one transaction.
func (s *ListService) Delete(ctx context.Context, userID, listID int64) error {
	if _, err := s.guard.Verify(ctx, userID, listID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.mediaRepo.DeleteByList(ctx, tx, listID); err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, tx, listID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit list deletion: %w", err)
	}

	return nil
}

// CountsByType returns how many entries of each media type the list holds.
// Types with no entries are reported as zero.
func (s *ListService) CountsByType(ctx context.Context, userID, listID int64) (map[string]int, error) {
	if _, err := s.guard.Verify(ctx, userID, listID); err != nil {
		return nil, err
	}

	counts, err := s.mediaRepo.CountsByType(ctx, listID)
	if err != nil {
		return nil, err
	}

	for _, t := range []string{model.MediaTypeMovie, model.MediaTypeTV, model.MediaTypeAnime} {
		if _, ok := counts[t]; !ok {
			counts[t] = 0
		}
	}
	return counts, nil
}
