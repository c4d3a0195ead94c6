package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/middleware/auth"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
	"github.com/Skotchmaster/flower_shop/internal/search"
	"github.com/Skotchmaster/flower_shop/internal/storage"
	"github.com/Skotchmaster/flower_shop/internal/util"
)

// FlowerIndex is the full-text index kept next to the flowers table.
type FlowerIndex interface {
	IndexFlower(ctx context.Context, f *models.FlowerInfo) error
	DeleteFlower(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []search.Document, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Images storage.Uploader
	Index  FlowerIndex
	Events events.Publisher
	Now    func() time.Time
}

type FlowerInput struct {
	Name              string
	Description       string
	Price             decimal.Decimal
	AvailableQuantity int
	CategoryID        uint
}

type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type FlowerPage struct {
	Items []models.FlowerInfo `json:"items"`
	Meta  util.Meta           `json:"meta"`
}

func (in FlowerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be > 0", ErrValidation)
	}
	if in.AvailableQuantity < 0 {
		return fmt.Errorf("%w: available quantity must be >= 0", ErrValidation)
	}
	return nil
}

func (s *CatalogService) ListFlowers(ctx context.Context, categoryID uint, page, size int) (*FlowerPage, error) {
	from, limit := util.Calculate(page, size)
	total, items, err := s.Repo.ListFlowers(ctx, categoryID, from, limit)
	if err != nil {
		return nil, err
	}
	return &FlowerPage{Items: items, Meta: util.NewMeta(page, from, limit, total)}, nil
}

func (s *CatalogService) GetFlower(ctx context.Context, id uint) (*models.FlowerInfo, error) {
	f, err := s.Repo.GetFlower(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("flower %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// SearchFlowers asks the index first and falls back to SQL when it is absent or failing.
func (s *CatalogService) SearchFlowers(ctx context.Context, q string, page, size int) (*FlowerPage, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	from, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, docs, err := s.Index.Search(ctx, q, from, limit)
		if err == nil {
			items, err := s.hydrate(ctx, docs)
			if err != nil {
				return nil, err
			}
			return &FlowerPage{Items: items, Meta: util.NewMeta(page, from, limit, total)}, nil
		}
		l.Warn("search_index_error", "reason", "falling back to sql", "error", err)
	}

	total, items, err := s.Repo.SearchFlowers(ctx, q, from, limit)
	if err != nil {
		return nil, err
	}
	return &FlowerPage{Items: items, Meta: util.NewMeta(page, from, limit, total)}, nil
}

// hydrate reloads indexed hits from the database, keeping the index's ranking.
func (s *CatalogService) hydrate(ctx context.Context, docs []search.Document) ([]models.FlowerInfo, error) {
	ids := make([]uint, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	rows, err := s.Repo.FlowersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.FlowerInfo, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	items := make([]models.FlowerInfo, 0, len(rows))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			items = append(items, f)
		}
	}
	return items, nil
}

func (s *CatalogService) CreateFlower(ctx context.Context, caller auth.Identity, in FlowerInput, img *Image) (*models.FlowerInfo, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_flower", "user_id", caller.UserID)

	if err := in.validate(); err != nil {
		return nil, err
	}
	seller, err := s.Repo.SellerByUserID(ctx, caller.UserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: only registered sellers can list flowers", ErrForbidden)
		}
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	f := &models.FlowerInfo{
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Price:             in.Price.Round(2),
		AvailableQuantity: in.AvailableQuantity,
		CategoryID:        in.CategoryID,
		SellerID:          seller.ID,
	}
	if img != nil {
		url, err := s.upload(ctx, "flowers", img)
		if err != nil {
			return nil, err
		}
		f.ImageURL = url
	}

	if err := s.Repo.CreateFlower(ctx, f); err != nil {
		return nil, err
	}
	s.reindex(ctx, f)
	publish(ctx, s.Events, events.TopicCatalog, f.ID, events.FlowerEvent{
		Type: "flower_created", FlowerID: f.ID, SellerID: f.SellerID, Name: f.Name, Timestamp: nowFunc(s.Now),
	})

	l.Info("create_flower_success", "flower_id", f.ID)
	return f, nil
}

func (s *CatalogService) UpdateFlower(ctx context.Context, caller auth.Identity, id uint, in FlowerInput, img *Image) (*models.FlowerInfo, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	f, err := s.ownedFlower(ctx, caller, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	f.Name = strings.TrimSpace(in.Name)
	f.Description = in.Description
	f.Price = in.Price.Round(2)
	f.AvailableQuantity = in.AvailableQuantity
	f.CategoryID = in.CategoryID
	if img != nil {
		url, err := s.upload(ctx, "flowers", img)
		if err != nil {
			return nil, err
		}
		f.ImageURL = url
	}

	if err := s.Repo.SaveFlower(ctx, f); err != nil {
		return nil, err
	}
	s.reindex(ctx, f)
	publish(ctx, s.Events, events.TopicCatalog, f.ID, events.FlowerEvent{
		Type: "flower_updated", FlowerID: f.ID, SellerID: f.SellerID, Name: f.Name, Timestamp: nowFunc(s.Now),
	})
	return f, nil
}

func (s *CatalogService) DeleteFlower(ctx context.Context, caller auth.Identity, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_flower", "flower_id", id)

	f, err := s.ownedFlower(ctx, caller, id, true)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteFlower(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("flower %d: %w", id, ErrNotFound)
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteFlower(ctx, id); err != nil {
			l.Warn("search_index_error", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCatalog, id, events.FlowerEvent{
		Type: "flower_deleted", FlowerID: id, SellerID: f.SellerID, Name: f.Name, Timestamp: nowFunc(s.Now),
	})
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	exists, err := s.Repo.CategoryExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("category %q: %w", name, ErrConflict)
	}
	c := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ownedFlower loads the flower and checks the caller's shop owns it.
func (s *CatalogService) ownedFlower(ctx context.Context, caller auth.Identity, id uint, adminAllowed bool) (*models.FlowerInfo, error) {
	f, err := s.GetFlower(ctx, id)
	if err != nil {
		return nil, err
	}
	if adminAllowed && caller.Role == models.RoleAdmin {
		return f, nil
	}
	seller, err := s.Repo.SellerByUserID(ctx, caller.UserID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: not a seller", ErrForbidden)
		}
		return nil, err
	}
	if seller.ID != f.SellerID {
		return nil, fmt.Errorf("%w: flower %d belongs to another shop", ErrForbidden, id)
	}
	return f, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id uint) error {
	if id == 0 {
		return nil
	}
	if _, err := s.Repo.GetCategory(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: unknown category %d", ErrValidation, id)
		}
		return err
	}
	return nil
}

func (s *CatalogService) upload(ctx context.Context, prefix string, img *Image) (string, error) {
	if s.Images == nil {
		return "", fmt.Errorf("%w: image storage is not configured", ErrValidation)
	}
	url, err := s.Images.Upload(ctx, prefix, img.Filename, img.ContentType, img.Body)
	if err != nil {
		return "", fmt.Errorf("upload image: %w: %v", ErrUpstream, err)
	}
	return url, nil
}

func (s *CatalogService) reindex(ctx context.Context, f *models.FlowerInfo) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexFlower(ctx, f); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "flower_id", f.ID, "error", err)
	}
}
