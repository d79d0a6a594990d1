package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"showcase/catalog/internal/client"
	"showcase/catalog/internal/domain"
	"showcase/catalog/internal/fetcher"
	"showcase/catalog/internal/locator"
	"showcase/catalog/internal/session"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	locator    *locator.Locator
	fetcher    *fetcher.Fetcher
	store      session.Store
	metrics    *client.Metrics
	sessionID  string
	mode       domain.FetchMode
	maxWorkers int

	group singleflight.Group
}

func NewService(
	locator *locator.Locator,
	fetcher *fetcher.Fetcher,
	store session.Store,
	metrics *client.Metrics,
	sessionID string,
	mode domain.FetchMode,
	maxWorkers int,
) *Service {
	return &Service{
		locator:    locator,
		fetcher:    fetcher,
		store:      store,
		metrics:    metrics,
		sessionID:  sessionID,
		mode:       mode,
		maxWorkers: maxWorkers,
	}
}

func (s *Service) SessionID() string {
	return s.sessionID
}

// BuildCatalog returns the session's catalog, building and caching it on first use.
// Concurrent callers share a single build.
func (s *Service) BuildCatalog(ctx context.Context) (*domain.Catalog, error) {
	result, err, shared := s.group.Do(s.sessionID, func() (any, error) {
		if catalog, ok := s.loadCached(ctx); ok {
			return catalog, nil
		}
		return s.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debugf("Catalog build for session %s was shared", s.sessionID)
	}
	return result.(*domain.Catalog), nil
}

// GetCatalog is the consumer-facing entry point for listing pages.
func (s *Service) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	return s.BuildCatalog(ctx)
}

// GetProduct resolves a "<category>-<product>" identifier.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	categoryFolder, productFolder, err := domain.ParseProductID(id)
	if err != nil {
		return nil, err
	}
	return s.GetProductByFolders(ctx, categoryFolder, productFolder)
}

// GetProductByFolders serves a detailed cached entry when there is one and
// otherwise fetches the product on its own. A missing name.txt means not found.
func (s *Service) GetProductByFolders(ctx context.Context, categoryFolder, productFolder string) (*domain.Product, error) {
	ref := domain.ProductRef{CategoryFolder: categoryFolder, Folder: productFolder}

	categoryName := ""
	if catalog, ok := s.loadCached(ctx); ok {
		if product, found := catalog.Product(ref.ID()); found && product.Detailed {
			log.Debugf("Product %s served from session cache", ref.ID())
			return product, nil
		}
		for _, category := range catalog.Categories {
			if category.Folder == categoryFolder {
				categoryName = category.Name
				break
			}
		}
	}
	if categoryName == "" {
		categoryName = s.locator.CategoryName(ctx, categoryFolder)
	}

	product, err := s.fetcher.FetchDetail(ctx, ref, categoryName, true)
	if err != nil {
		log.Warnf("⚠️ Product %s not found: %v", ref.ID(), err)
		return nil, err
	}
	return product, nil
}

// EndSession drops the cached snapshot so the next build starts from scratch.
func (s *Service) EndSession(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.sessionID); err != nil {
		return fmt.Errorf("failed to end session %s: %w", s.sessionID, err)
	}
	log.Infof("🧹 Session %s cleared", s.sessionID)
	return nil
}

func (s *Service) loadCached(ctx context.Context) (*domain.Catalog, bool) {
	data, err := s.store.Load(ctx, s.sessionID)
	if err != nil {
		if errors.Is(err, session.ErrCacheMiss) {
			s.metrics.IncCache("miss")
		} else {
			s.metrics.IncCache("error")
			log.Warnf("⚠️ Session cache unavailable, rebuilding: %v", err)
		}
		return nil, false
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		s.metrics.IncCache("error")
		log.Warnf("⚠️ Discarding corrupt session snapshot: %v", err)
		return nil, false
	}

	s.metrics.IncCache("hit")
	return &catalog, true
}

func (s *Service) build(ctx context.Context) (*domain.Catalog, error) {
	start := time.Now()

	refs, err := s.locator.ListCategories(ctx)
	if err != nil {
		log.Errorf("❌ Failed to list categories: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	log.Infof("🔄 Building %s catalog for session %s: %d categories", s.mode, s.sessionID, len(refs))

	catalog := &domain.Catalog{
		SessionID:   s.sessionID,
		ContactLink: s.locator.ContactLink(ctx),
		Mode:        s.mode,
		Categories:  make([]domain.Category, len(refs)),
	}

	g := new(errgroup.Group)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			catalog.Categories[i] = s.buildCategory(ctx, ref)
			return nil
		})
	}
	_ = g.Wait()

	catalog.BuiltAt = time.Now().UTC()

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := s.store.Save(ctx, s.sessionID, data); err != nil {
		log.Warnf("⚠️ Failed to cache catalog: %v", err)
	}

	log.Infof("✅ Catalog built: %d categories, %d products in %s",
		len(catalog.Categories), catalog.ProductCount(), time.Since(start).Round(time.Millisecond))
	return catalog, nil
}

func (s *Service) buildCategory(ctx context.Context, ref domain.CategoryRef) domain.Category {
	productRefs := s.locator.ListProducts(ctx, ref)

	results := make([]*domain.Product, len(productRefs))
	g := new(errgroup.Group)
	g.SetLimit(s.maxWorkers)
	for i, productRef := range productRefs {
		i, productRef := i, productRef
		g.Go(func() error {
			results[i] = s.fetchProduct(ctx, productRef, ref.Name)
			return nil
		})
	}
	_ = g.Wait()

	category := domain.Category{
		Folder:         ref.Folder,
		Name:           ref.Name,
		ProductFolders: make([]string, 0, len(productRefs)),
		Products:       make([]domain.Product, 0, len(productRefs)),
	}
	for i, product := range results {
		category.ProductFolders = append(category.ProductFolders, productRefs[i].Folder)
		if product != nil {
			category.Products = append(category.Products, *product)
		}
	}

	log.Infof("📦 Category %s: %d of %d products", ref.Folder, len(category.Products), len(productRefs))
	return category
}

// fetchProduct drives one product to a terminal state. A nil result means skipped.
func (s *Service) fetchProduct(ctx context.Context, ref domain.ProductRef, categoryName string) *domain.Product {
	s.transition(ref, domain.ProductStateFetching, nil)

	var (
		product *domain.Product
		err     error
	)
	if s.mode == domain.FetchModeSummary {
		product, err = s.fetcher.FetchSummary(ctx, ref, categoryName)
	} else {
		product, err = s.fetcher.FetchDetail(ctx, ref, categoryName, false)
	}

	if err != nil {
		s.transition(ref, domain.ProductStateSkipped, err)
		return nil
	}
	s.transition(ref, domain.ProductStateFound, nil)
	return product
}

func (s *Service) transition(ref domain.ProductRef, state domain.ProductState, err error) {
	entry := log.WithFields(log.Fields{
		"product": ref.ID(),
		"state":   state.String(),
	})
	if err != nil {
		entry.Warnf("⚠️ Skipping product: %v", err)
	} else {
		entry.Debug("Product state changed")
	}

	if state.Terminal() {
		s.metrics.IncProduct(state.String())
	}
}
