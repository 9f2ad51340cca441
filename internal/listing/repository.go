// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"miniblocket_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for listing data operations.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	ReplaceImages(ctx context.Context, listingID uuid.UUID, images []ListingImage) error
	Delete(ctx context.Context, id uuid.UUID) error
	SearchPublic(ctx context.Context, query SearchQuery) ([]Listing, *common.Pagination, error)
	FindBySellerAndStatuses(ctx context.Context, sellerID uuid.UUID, statuses []ListingStatus) ([]Listing, error)
	FindByStatus(ctx context.Context, status ListingStatus, page, pageSize int) ([]Listing, *common.Pagination, error)
	CountByStatus(ctx context.Context) (map[ListingStatus]int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) preloader(query *gorm.DB) *gorm.DB {
	return query.Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.sort_order ASC")
		})
}

// Create inserts a new listing and its images in a single transaction.
func (r *gormRepository) Create(ctx context.Context, listing *Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error) {
	var listing Listing
	query := r.db.WithContext(ctx)
	if preloadAssociations {
		query = r.preloader(query)
	}
	err := query.First(&listing, "listings.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Listing not found.")
		}
		return nil, err
	}
	return &listing, nil
}

// Update saves the listing's scalar fields. Images are handled by ReplaceImages.
func (r *gormRepository) Update(ctx context.Context, listing *Listing) error {
	if err := r.db.WithContext(ctx).Omit("Images", "Seller").Save(listing).Error; err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// ReplaceImages swaps the full ordered image set of a listing.
func (r *gormRepository) ReplaceImages(ctx context.Context, listingID uuid.UUID, images []ListingImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&ListingImage{}).Error; err != nil {
			return fmt.Errorf("failed to clear listing images: %w", err)
		}
		for i := range images {
			images[i].ListingID = listingID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return fmt.Errorf("failed to insert listing images: %w", err)
			}
		}
		return nil
	})
}

// Delete hard-removes the listing and its images.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&ListingImage{}).Error; err != nil {
			return err
		}
		result := tx.Select(clause.Associations).Delete(&Listing{BaseModel: common.BaseModel{ID: id}})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Listing not found or already deleted.")
		}
		return nil
	})
}

// SearchPublic retrieves publicly visible listings matching the conjunctive filters.
func (r *gormRepository) SearchPublic(ctx context.Context, queryParams SearchQuery) ([]Listing, *common.Pagination, error) {
	var listings []Listing
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Listing{}).
		Where("listings.status = ? AND listings.visible = ?", StatusActive, true)

	if term := strings.TrimSpace(queryParams.Query); term != "" {
		dbQuery = dbQuery.Where("LOWER(listings.title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if queryParams.Location != "" {
		dbQuery = dbQuery.Where("listings.location = ?", queryParams.Location)
	}
	if len(queryParams.Categories) > 0 {
		dbQuery = dbQuery.Where("listings.category IN ?", queryParams.Categories)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count listings: %w", err)
	}

	page := queryParams.Page
	pagination := common.NewPagination(totalItems, page, queryParams.PageSize)

	err := r.preloader(dbQuery).
		Order("listings.created_at DESC").
		Offset(queryParams.Offset()).
		Limit(queryParams.Limit()).
		Find(&listings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search listings: %w", err)
	}

	return listings, pagination, nil
}

// FindBySellerAndStatuses returns all the seller's listings in the given states.
func (r *gormRepository) FindBySellerAndStatuses(ctx context.Context, sellerID uuid.UUID, statuses []ListingStatus) ([]Listing, error) {
	var listings []Listing
	query := r.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := r.preloader(query).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// FindByStatus returns a page of listings in the given state, oldest first.
// The moderation queue reads pending listings through this.
func (r *gormRepository) FindByStatus(ctx context.Context, status ListingStatus, page, pageSize int) ([]Listing, *common.Pagination, error) {
	var listings []Listing
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Listing{}).Where("status = ?", status)
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count listings by status: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	err := r.preloader(dbQuery).
		Order("created_at ASC").
		Offset(offset).
		Limit(pagination.PageSize).
		Find(&listings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch listings by status: %w", err)
	}
	return listings, pagination, nil
}

// CountByStatus returns the number of listings in each lifecycle state.
func (r *gormRepository) CountByStatus(ctx context.Context) (map[ListingStatus]int64, error) {
	type row struct {
		Status ListingStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Listing{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count listings by status: %w", err)
	}

	counts := make(map[ListingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
