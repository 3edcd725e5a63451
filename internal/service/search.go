package service

import (
	"AutosValle-Backend/internal/config"
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"context"
	"fmt"
	"math/rand/v2"
)

const quickSearchLimit = 10

// SearchResult is one page of the public feed with its pagination metadata.
type SearchResult struct {
	Vehicles   []*domain.Vehicle `json:"vehicles"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	HasPrev    bool              `json:"has_prev"`
	HasNext    bool              `json:"has_next"`
	PrevPage   int               `json:"prev_page,omitempty"`
	NextPage   int               `json:"next_page,omitempty"`
}

// QuickSearchItem is the lightweight summary returned to typeahead search.
type QuickSearchItem struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	FormattedPrice string  `json:"formatted_price"`
	Year           *int    `json:"year,omitempty"`
	Kilometers     *int    `json:"kilometers,omitempty"`
	FuelType       string  `json:"fuel_type"`
	MainImage      *string `json:"main_image,omitempty"`
	DetailURL      string  `json:"detail_url"`
}

// SearchService filters, shuffles and paginates the public listing feed.
type SearchService struct {
	storage repository.Storage
	config  *config.Marketplace
}

func NewSearchService(storage repository.Storage, cfg *config.Marketplace) *SearchService {
	return &SearchService{
		storage: storage,
		config:  cfg,
	}
}

// Search runs the filtered feed query. The result order is shuffled per
// request: visitors exploring the feed see different listings first each
// time. Pagination applies after the shuffle with a fixed page size.
func (s *SearchService) Search(ctx context.Context, filter repository.VehicleFilter, page int) (*SearchResult, error) {
	vehicles, err := s.storage.SearchVehicles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}

	rand.Shuffle(len(vehicles), func(i, j int) {
		vehicles[i], vehicles[j] = vehicles[j], vehicles[i]
	})

	pageSize := s.config.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	if page < 1 {
		page = 1
	}

	total := len(vehicles)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	result := &SearchResult{
		Vehicles:   vehicles[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if result.HasPrev {
		result.PrevPage = page - 1
	}
	if result.HasNext {
		result.NextPage = page + 1
	}

	return result, nil
}

// QuickSearch returns at most ten lightweight summaries matching the query,
// for the interactive search box.
func (s *SearchService) QuickSearch(ctx context.Context, query string) ([]*QuickSearchItem, error) {
	vehicles, err := s.storage.SearchVehicles(ctx, repository.VehicleFilter{Search: query})
	if err != nil {
		return nil, fmt.Errorf("failed to run quick search: %w", err)
	}

	if len(vehicles) > quickSearchLimit {
		vehicles = vehicles[:quickSearchLimit]
	}

	items := make([]*QuickSearchItem, 0, len(vehicles))
	for _, v := range vehicles {
		items = append(items, &QuickSearchItem{
			ID:             v.ID,
			Title:          v.Title,
			Brand:          v.Brand,
			Model:          v.Model,
			FormattedPrice: v.FormatPrice(),
			Year:           v.Year,
			Kilometers:     v.Kilometers,
			FuelType:       v.FuelType,
			MainImage:      v.MainImage(),
			DetailURL:      v.DetailURL(s.config.BaseURL),
		})
	}

	return items, nil
}

// MostViewed ranks active listings by descending view count. The public
// carousel restricts to plus listings; admin views see all active listings.
func (s *SearchService) MostViewed(ctx context.Context, onlyPlus bool) ([]*repository.VehicleWithStats, error) {
	return s.storage.MostViewed(ctx, onlyPlus, 10)
}

// Brands returns the sorted distinct brand values among active listings.
func (s *SearchService) Brands(ctx context.Context) ([]string, error) {
	return s.storage.DistinctBrands(ctx)
}
