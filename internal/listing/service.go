// File: internal/listing/service.go
package listing

import (
	"context"
	"strings"

	"miniblocket_backend/internal/category"
	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the operations for creating and managing listings.
type Service interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, sellerRole string, req CreateListingRequest) (*Listing, error)
	GetListingByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID, viewerRole string) (*Listing, error)
	SearchPublic(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error)
	GetOwnListings(ctx context.Context, sellerID uuid.UUID) ([]Listing, error)
	GetSoldListings(ctx context.Context, sellerID uuid.UUID) ([]Listing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req UpdateListingRequest) (*Listing, error)
	ToggleSold(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error
}

type service struct {
	repo            Repository
	categoryService category.Service
	cfg             *config.Config
	logger          *zap.Logger
}

// NewService creates a new listing Service.
func NewService(repo Repository, categoryService category.Service, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:            repo,
		categoryService: categoryService,
		cfg:             cfg,
		logger:          logger.Named("ListingService"),
	}
}

// CreateListing stores a new listing. Listings from regular users start in
// pending review; admin-created listings go live immediately.
func (s *service) CreateListing(ctx context.Context, sellerID uuid.UUID, sellerRole string, req CreateListingRequest) (*Listing, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.ErrValidation.WithDetails("title must not be empty")
	}
	if req.Price < 0 {
		return nil, common.ErrValidation.WithDetails("price must not be negative")
	}
	validCategory, err := s.categoryService.ValidCategorySlug(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	if !validCategory {
		return nil, common.ErrValidation.WithDetails("unknown category: " + req.Category)
	}
	if !category.IsValidLocation(req.Location) {
		return nil, common.ErrValidation.WithDetails("unknown location: " + req.Location)
	}

	l := &Listing{
		SellerID:    sellerID,
		Title:       title,
		Price:       req.Price,
		Category:    req.Category,
		Location:    req.Location,
		Description: strings.TrimSpace(req.Description),
		Status:      StatusPending,
		Visible:     false,
	}
	if sellerRole == common.RoleAdmin {
		l.Status = StatusActive
		l.Visible = true
	}

	imageURLs := req.ImageURLs
	if len(imageURLs) == 0 && s.cfg.PlaceholderImageURL != "" {
		imageURLs = []string{s.cfg.PlaceholderImageURL}
	}
	for i, url := range imageURLs {
		l.Images = append(l.Images, ListingImage{URL: url, SortOrder: i})
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("Failed to create listing", zap.Error(err), zap.String("sellerID", sellerID.String()))
		return nil, err
	}
	s.logger.Info("Listing created",
		zap.String("listingID", l.ID.String()),
		zap.String("sellerID", sellerID.String()),
		zap.String("status", string(l.Status)))
	return l, nil
}

// GetListingByID returns a listing if the viewer is allowed to see it.
// Anyone can read a publicly visible listing; otherwise only the seller or an
// admin may.
func (s *service) GetListingByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID, viewerRole string) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if l.IsPubliclyVisible() {
		return l, nil
	}
	if viewerRole == common.RoleAdmin || viewerID == l.SellerID {
		return l, nil
	}
	// Hide the existence of non-public listings from other users.
	return nil, common.ErrNotFound.WithDetails("Listing not found.")
}

// SearchPublic returns publicly visible listings matching the query filters.
func (s *service) SearchPublic(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error) {
	listings, pagination, err := s.repo.SearchPublic(ctx, query)
	if err != nil {
		s.logger.Error("Failed to search listings", zap.Error(err))
		return nil, nil, err
	}
	return listings, pagination, nil
}

// GetOwnListings returns the seller's unsold listings across review states.
func (s *service) GetOwnListings(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	return s.repo.FindBySellerAndStatuses(ctx, sellerID, []ListingStatus{StatusPending, StatusActive, StatusRejected})
}

// GetSoldListings returns the seller's sold history.
func (s *service) GetSoldListings(ctx context.Context, sellerID uuid.UUID) ([]Listing, error) {
	return s.repo.FindBySellerAndStatuses(ctx, sellerID, []ListingStatus{StatusSold})
}

// UpdateListing lets the seller edit a listing while it is pending or
// rejected. Edits never change review status; a rejected listing must be
// resubmitted to re-enter the queue.
func (s *service) UpdateListing(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, common.ErrForbidden.WithDetails("Only the seller can edit a listing.")
	}
	if l.Status != StatusPending && l.Status != StatusRejected {
		return nil, common.ErrInvalidState.WithDetails("Only pending or rejected listings can be edited.")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.ErrValidation.WithDetails("title must not be empty")
		}
		l.Title = title
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, common.ErrValidation.WithDetails("price must not be negative")
		}
		l.Price = *req.Price
	}
	if req.Category != nil {
		validCategory, err := s.categoryService.ValidCategorySlug(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		if !validCategory {
			return nil, common.ErrValidation.WithDetails("unknown category: " + *req.Category)
		}
		l.Category = *req.Category
	}
	if req.Location != nil {
		if !category.IsValidLocation(*req.Location) {
			return nil, common.ErrValidation.WithDetails("unknown location: " + *req.Location)
		}
		l.Location = *req.Location
	}
	if req.Description != nil {
		l.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to update listing", zap.Error(err), zap.String("listingID", id.String()))
		return nil, err
	}

	if req.ImageURLs != nil {
		images := make([]ListingImage, len(req.ImageURLs))
		for i, url := range req.ImageURLs {
			images[i] = ListingImage{URL: url, SortOrder: i}
		}
		if err := s.repo.ReplaceImages(ctx, l.ID, images); err != nil {
			s.logger.Error("Failed to replace listing images", zap.Error(err), zap.String("listingID", id.String()))
			return nil, err
		}
		return s.repo.FindByID(ctx, id, true)
	}
	return l, nil
}

// ToggleSold flips a listing between active and sold. Applying it twice
// returns the listing to its previous state. Sold listings keep visible=true
// so toggling back restores public visibility without another review.
func (s *service) ToggleSold(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*Listing, error) {
	l, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, common.ErrForbidden.WithDetails("Only the seller can mark a listing sold.")
	}

	switch l.Status {
	case StatusActive:
		l.Status = StatusSold
	case StatusSold:
		l.Status = StatusActive
	default:
		return nil, common.ErrInvalidState.WithDetails("Only active or sold listings can be toggled.")
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("Failed to toggle sold state", zap.Error(err), zap.String("listingID", id.String()))
		return nil, err
	}
	s.logger.Info("Listing sold state toggled",
		zap.String("listingID", l.ID.String()),
		zap.String("status", string(l.Status)))
	return l, nil
}

// DeleteListing removes a listing and its images. The seller may delete their
// own listing; admins may delete any.
func (s *service) DeleteListing(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) error {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if actorRole != common.RoleAdmin && l.SellerID != actorID {
		return common.ErrForbidden.WithDetails("Only the seller or an admin can delete a listing.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete listing", zap.Error(err), zap.String("listingID", id.String()))
		return err
	}
	s.logger.Info("Listing deleted", zap.String("listingID", id.String()), zap.String("actorID", actorID.String()))
	return nil
}
