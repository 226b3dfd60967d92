package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/pkg/catalogapi"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CatalogStore holds the product and category lists fetched from the remote
// catalog. Products are read-only once loaded.
type CatalogStore struct {
	api      catalogapi.API
	validate *validator.Validate
	bus      *events.Bus
	limit    int

	loaded     bool
	products   []models.Product
	categories []models.Category
	index      map[int64]int
}

func NewCatalogStore(api catalogapi.API, validate *validator.Validate, bus *events.Bus, limit int) *CatalogStore {
	return &CatalogStore{
		api:      api,
		validate: validate,
		bus:      bus,
		limit:    limit,
		index:    make(map[int64]int),
	}
}

// Load fetches products then categories. Nothing is committed unless both
// succeed; once loaded, later calls do nothing.
func (s *CatalogStore) Load(ctx context.Context) error {

	if s.loaded {
		return nil
	}

	logger := middleware.LoggerFromContext(ctx)

	products, err := s.api.ListProducts(ctx, s.limit)
	if err != nil {
		logger.Error("Failed to load products", slog.Any("error", err))
		return errors.NetworkError("Failed to load products").WithError(err)
	}

	for i := range products {
		if err := utils.Validate(s.validate, &products[i]); err != nil {
			logger.Error("Catalog returned an invalid product", slog.Int64("product_id", products[i].ID), slog.Any("error", err))
			return errors.NetworkError("Catalog returned an invalid product").WithError(err)
		}
	}

	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		logger.Error("Failed to load categories", slog.Any("error", err))
		return errors.NetworkError("Failed to load categories").WithError(err)
	}

	index := make(map[int64]int, len(products))
	for i, p := range products {
		if _, dup := index[p.ID]; !dup {
			index[p.ID] = i
		}
	}

	s.products = products
	s.categories = categories
	s.index = index
	s.loaded = true

	logger.Info("Catalog loaded", slog.Int("products", len(products)), slog.Int("categories", len(categories)))
	s.bus.Publish(ctx, events.TopicCatalog, "load", len(products))

	return nil
}

func (s *CatalogStore) Loaded() bool {
	return s.loaded
}

func (s *CatalogStore) Products() []models.Product {
	return slices.Clone(s.products)
}

func (s *CatalogStore) Categories() []models.Category {
	return slices.Clone(s.categories)
}

func (s *CatalogStore) Product(id int64) (models.Product, error) {

	i, ok := s.index[id]
	if !ok {
		return models.Product{}, errors.NotFoundError("Product not found")
	}

	return s.products[i], nil
}

// ByCategory filters the loaded catalog by category slug.
func (s *CatalogStore) ByCategory(slug string) []models.Product {

	result := []models.Product{}

	for _, p := range s.products {
		if p.Category == slug {
			result = append(result, p)
		}
	}

	return result
}

// FetchCategory asks the remote catalog for one category's products. The
// store itself is left untouched.
func (s *CatalogStore) FetchCategory(ctx context.Context, slug string) ([]models.Product, error) {

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.AddValidationError("category", "is required")
	}

	products, err := s.api.ListCategoryProducts(ctx, slug)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to load category", slog.String("category", slug), slog.Any("error", err))
		return nil, errors.NetworkError("Failed to load category").WithError(err)
	}

	return products, nil
}

// Search matches the trimmed query case-insensitively against title,
// description, category and brand. A non-empty category narrows the search
// to that category first; an empty query returns the whole scope.
func (s *CatalogStore) Search(query, category string) []models.Product {

	scope := s.products
	if category != "" {
		scope = s.ByCategory(category)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return slices.Clone(scope)
	}

	result := []models.Product{}

	for _, p := range scope {
		if matches(p, needle) {
			result = append(result, p)
		}
	}

	return result
}

func matches(p models.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) ||
		strings.Contains(strings.ToLower(p.BrandName()), needle)
}

// Sort returns a sorted copy. Unknown keys keep the input order.
func (s *CatalogStore) Sort(products []models.Product, key string) []models.Product {
	return SortProducts(products, key)
}

func SortProducts(products []models.Product, key string) []models.Product {

	sorted := slices.Clone(products)
	if sorted == nil {
		sorted = []models.Product{}
	}

	switch key {
	case models.SortPriceAsc:
		slices.SortStableFunc(sorted, func(a, b models.Product) int { return compareFloat(a.Price, b.Price) })
	case models.SortPriceDesc:
		slices.SortStableFunc(sorted, func(a, b models.Product) int { return compareFloat(b.Price, a.Price) })
	case models.SortRating:
		slices.SortStableFunc(sorted, func(a, b models.Product) int { return compareFloat(b.Rating, a.Rating) })
	case models.SortNameAsc, models.SortNameDesc:
		// collators are not safe for concurrent use
		c := collate.New(language.English, collate.IgnoreCase)
		desc := key == models.SortNameDesc

		slices.SortStableFunc(sorted, func(a, b models.Product) int {
			if desc {
				return c.CompareString(b.Title, a.Title)
			}

			return c.CompareString(a.Title, b.Title)
		})
	}

	return sorted
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Browse applies category scope, then search, then sort.
func (s *CatalogStore) Browse(q models.ProductQuery) []models.Product {
	return s.Sort(s.Search(q.Text, q.Category), q.Sort)
}
