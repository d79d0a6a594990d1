package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"showcase/catalog/internal/client"
	"showcase/catalog/internal/config"
	"showcase/catalog/internal/domain"
	"showcase/catalog/internal/fetcher"

	log "github.com/sirupsen/logrus"
)

const (
	IndexFile        = "catalog-index.json"
	CategoriesFile   = "categories.txt"
	CategoryNameFile = "category_name.txt"
	LinkFile         = "link.txt"
)

// ErrManifestUnavailable means neither manifest format could be read.
var ErrManifestUnavailable = errors.New("category manifest unavailable")

type catalogIndex struct {
	Categories []indexCategory `json:"categories"`
}

type indexCategory struct {
	Folder   string         `json:"folder"`
	Name     string         `json:"name"`
	Products []indexProduct `json:"products"`
}

type indexProduct struct {
	Folder string   `json:"folder"`
	Images []string `json:"images"`
}

// UnmarshalJSON accepts either {"folder": "1", ...} or a bare folder name.
func (p *indexProduct) UnmarshalJSON(data []byte) error {
	var folder string
	if err := json.Unmarshal(data, &folder); err == nil {
		p.Folder = folder
		return nil
	}
	type plain indexProduct
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = indexProduct(decoded)
	return nil
}

// Locator discovers categories and products under the asset root.
type Locator struct {
	client  client.AssetClient
	fetcher *fetcher.Fetcher
	config  config.AssetsConfig
}

func NewLocator(client client.AssetClient, fetcher *fetcher.Fetcher, cfg config.AssetsConfig) *Locator {
	return &Locator{
		client:  client,
		fetcher: fetcher,
		config:  cfg,
	}
}

// ListCategories reads the category manifest. On failure it returns an empty
// slice together with ErrManifestUnavailable.
func (l *Locator) ListCategories(ctx context.Context) ([]domain.CategoryRef, error) {
	switch l.config.Manifest {
	case config.ManifestIndex:
		return l.fromIndex(ctx)
	case config.ManifestText:
		return l.fromText(ctx)
	}

	refs, err := l.fromIndex(ctx)
	if err == nil {
		return refs, nil
	}
	log.Debugf("No usable %s, falling back to %s: %v", IndexFile, CategoriesFile, err)
	return l.fromText(ctx)
}

func (l *Locator) fromIndex(ctx context.Context) ([]domain.CategoryRef, error) {
	raw, err := l.client.FetchText(ctx, IndexFile)
	if err != nil {
		return []domain.CategoryRef{}, fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
	}

	var index catalogIndex
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		return []domain.CategoryRef{}, fmt.Errorf("%w: decode %s: %v", ErrManifestUnavailable, IndexFile, err)
	}

	refs := make([]domain.CategoryRef, 0, len(index.Categories))
	for _, category := range index.Categories {
		folder := strings.TrimSpace(category.Folder)
		if folder == "" {
			continue
		}
		name := strings.TrimSpace(category.Name)
		if name == "" {
			name = folder
		}

		var products []domain.ProductRef
		if category.Products != nil {
			products = make([]domain.ProductRef, 0, len(category.Products))
		}
		for _, product := range category.Products {
			productFolder := strings.TrimSpace(product.Folder)
			if productFolder == "" {
				continue
			}
			products = append(products, domain.ProductRef{
				CategoryFolder: folder,
				Folder:         productFolder,
				Images:         product.Images,
			})
		}

		// Without a products list the category is still probed folder by folder.
		refs = append(refs, domain.CategoryRef{
			Folder:   folder,
			Name:     name,
			Products: products,
			Indexed:  category.Products != nil,
		})
	}

	log.Debugf("Loaded %d categories from %s", len(refs), IndexFile)
	return refs, nil
}

func (l *Locator) fromText(ctx context.Context) ([]domain.CategoryRef, error) {
	raw, err := l.client.FetchText(ctx, CategoriesFile)
	if err != nil {
		return []domain.CategoryRef{}, fmt.Errorf("%w: %v", ErrManifestUnavailable, err)
	}

	refs := make([]domain.CategoryRef, 0)
	for _, line := range strings.Split(raw, "\n") {
		folder := strings.TrimSpace(line)
		if folder == "" {
			continue
		}
		refs = append(refs, domain.CategoryRef{
			Folder: folder,
			Name:   l.CategoryName(ctx, folder),
		})
	}

	log.Debugf("Loaded %d categories from %s", len(refs), CategoriesFile)
	return refs, nil
}

// CategoryName reads category_name.txt, defaulting to the folder identifier.
func (l *Locator) CategoryName(ctx context.Context, folder string) string {
	name, ok, _ := l.fetcher.FetchTextAttribute(ctx, folder+"/"+CategoryNameFile, false)
	if !ok || name == "" {
		return folder
	}
	return name
}

// ListProducts returns the product folders of a category in display order.
// Indexed categories are returned as listed. Otherwise folders 1, 2, ... are
// probed through their name.txt until the first miss, so a gap truncates the list.
// Probed refs carry the name read on the way.
func (l *Locator) ListProducts(ctx context.Context, category domain.CategoryRef) []domain.ProductRef {
	if category.Indexed {
		return category.Products
	}

	products := make([]domain.ProductRef, 0)
	for n := 1; n <= l.config.MaxProducts; n++ {
		folder := strconv.Itoa(n)
		path := category.Folder + "/" + folder + "/name.txt"
		name, _, err := l.fetcher.FetchTextAttribute(ctx, path, true)
		if err != nil {
			break
		}
		if name == "" {
			name = domain.DefaultName
		}
		products = append(products, domain.ProductRef{
			CategoryFolder: category.Folder,
			Folder:         folder,
			Name:           name,
		})
	}

	if len(products) == l.config.MaxProducts {
		log.Warnf("⚠️ Category %s reached the probing limit of %d products", category.Folder, l.config.MaxProducts)
	}
	return products
}

// ContactLink reads the global call-to-action URL, "" when absent.
func (l *Locator) ContactLink(ctx context.Context) string {
	link, _, _ := l.fetcher.FetchTextAttribute(ctx, LinkFile, false)
	return link
}
