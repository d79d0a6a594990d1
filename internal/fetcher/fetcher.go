package fetcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"showcase/catalog/internal/client"
	"showcase/catalog/internal/config"
	"showcase/catalog/internal/domain"
	"showcase/catalog/internal/parser"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ImageExtensions are probed in this order; the first match per index wins.
var ImageExtensions = []string{"jpg", "jpeg", "png", "webp", "JPG", "PNG"}

const (
	nameFile        = "name.txt"
	priceFile       = "price.txt"
	oldPriceFile    = "old_price.txt"
	descriptionFile = "description.txt"
)

// Fetcher retrieves a single product's attributes with graceful degradation.
type Fetcher struct {
	client client.AssetClient
	config config.AssetsConfig
}

func NewFetcher(client client.AssetClient, cfg config.AssetsConfig) *Fetcher {
	return &Fetcher{
		client: client,
		config: cfg,
	}
}

// FetchTextAttribute returns the trimmed content of path. An absent optional
// attribute yields found=false and no error; an absent required one yields
// ErrProductNotFound. Transport failures count as absent.
func (f *Fetcher) FetchTextAttribute(ctx context.Context, path string, required bool) (string, bool, error) {
	text, err := f.client.FetchText(ctx, path)
	if err != nil {
		if !client.IsNotFound(err) {
			log.Debugf("Attribute %s unavailable: %v", path, err)
		}
		if required {
			return "", false, fmt.Errorf("%w: %s: %v", domain.ErrProductNotFound, path, err)
		}
		return "", false, nil
	}
	return strings.TrimSpace(text), true, nil
}

// DiscoverImages probes image1..imageN under productPath. The result is never empty.
func (f *Fetcher) DiscoverImages(ctx context.Context, productPath string) []string {
	var images []string
	if f.config.ImagePolicy == config.ImagePolicyTolerant {
		images = f.discoverTolerant(ctx, productPath)
	} else {
		images = f.discoverStrict(ctx, productPath, f.config.MaxImages)
	}

	if len(images) == 0 {
		return []string{f.config.PlaceholderImage}
	}
	return images
}

// discoverStrict skips leading gaps and stops at the first gap after an image was found.
func (f *Fetcher) discoverStrict(ctx context.Context, productPath string, limit int) []string {
	images := make([]string, 0, limit)
	for index := 1; index <= f.config.MaxImages && len(images) < limit; index++ {
		image, ok := f.probeImage(ctx, productPath, index)
		if !ok {
			if len(images) > 0 {
				break
			}
			continue
		}
		images = append(images, image)
	}
	return images
}

// discoverTolerant probes every index concurrently and keeps index order.
func (f *Fetcher) discoverTolerant(ctx context.Context, productPath string) []string {
	found := make([]string, f.config.MaxImages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.MaxWorkers)
	for index := 1; index <= f.config.MaxImages; index++ {
		index := index
		g.Go(func() error {
			if image, ok := f.probeImage(gctx, productPath, index); ok {
				found[index-1] = image
			}
			return nil
		})
	}
	_ = g.Wait()

	images := make([]string, 0, len(found))
	for _, image := range found {
		if image != "" {
			images = append(images, image)
		}
	}
	return images
}

func (f *Fetcher) probeImage(ctx context.Context, productPath string, index int) (string, bool) {
	for _, ext := range ImageExtensions {
		path := productPath + "/image" + strconv.Itoa(index) + "." + ext
		ok, err := f.client.Exists(ctx, path)
		if err != nil {
			log.Debugf("Image probe %s failed: %v", path, err)
			continue
		}
		if ok {
			return f.client.URL(path), true
		}
	}
	return "", false
}

// productName reuses the name read while probing and only fetches name.txt when it is unknown.
func (f *Fetcher) productName(ctx context.Context, ref domain.ProductRef, required bool) (string, bool, error) {
	if ref.Name != "" {
		return ref.Name, true, nil
	}
	return f.FetchTextAttribute(ctx, ref.Path()+"/"+nameFile, required)
}

// indexedImages resolves image file names listed by the catalog index.
func (f *Fetcher) indexedImages(ref domain.ProductRef) []string {
	images := make([]string, 0, len(ref.Images))
	for _, name := range ref.Images {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		images = append(images, f.client.URL(ref.Path()+"/"+name))
	}
	return images
}

// FetchDetail fetches every attribute and the full gallery. With requireName a
// missing name.txt means the product does not exist; otherwise it defaults.
func (f *Fetcher) FetchDetail(ctx context.Context, ref domain.ProductRef, categoryName string, requireName bool) (*domain.Product, error) {
	productPath := ref.Path()

	var (
		name, price, oldPrice, description string
		hasName, hasOldPrice, hasDesc      bool
		images                             []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		name, hasName, err = f.productName(gctx, ref, requireName)
		return err
	})
	g.Go(func() error {
		price, _, _ = f.FetchTextAttribute(gctx, productPath+"/"+priceFile, false)
		return nil
	})
	g.Go(func() error {
		oldPrice, hasOldPrice, _ = f.FetchTextAttribute(gctx, productPath+"/"+oldPriceFile, false)
		return nil
	})
	g.Go(func() error {
		description, hasDesc, _ = f.FetchTextAttribute(gctx, productPath+"/"+descriptionFile, false)
		return nil
	})
	g.Go(func() error {
		images = f.indexedImages(ref)
		if len(images) == 0 {
			images = f.DiscoverImages(gctx, productPath)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !hasName || name == "" {
		name = domain.DefaultName
	}
	if !hasDesc || description == "" {
		description = domain.DefaultDescription
	}

	product := &domain.Product{
		ID:             ref.ID(),
		CategoryFolder: ref.CategoryFolder,
		ProductFolder:  ref.Folder,
		Category:       categoryName,
		Name:           name,
		Price:          parser.ParsePrice(price),
		Description:    description,
		Excerpt:        parser.Excerpt(parser.PlainText(description), f.config.ExcerptLength),
		Images:         images,
		Detailed:       true,
	}
	if hasOldPrice {
		product.OldPrice = parser.ParseOldPrice(oldPrice)
	}
	return product, nil
}

// FetchSummary fetches the listing projection: name, prices and cover image.
// Any failure on the mandatory name is returned for the caller to filter out.
func (f *Fetcher) FetchSummary(ctx context.Context, ref domain.ProductRef, categoryName string) (*domain.Product, error) {
	productPath := ref.Path()

	name, _, err := f.productName(ctx, ref, true)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = domain.DefaultName
	}

	var (
		price, oldPrice string
		hasOldPrice     bool
		cover           string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		price, _, _ = f.FetchTextAttribute(gctx, productPath+"/"+priceFile, false)
		return nil
	})
	g.Go(func() error {
		oldPrice, hasOldPrice, _ = f.FetchTextAttribute(gctx, productPath+"/"+oldPriceFile, false)
		return nil
	})
	g.Go(func() error {
		cover = f.coverImage(gctx, ref)
		return nil
	})
	_ = g.Wait()

	product := &domain.Product{
		ID:             ref.ID(),
		CategoryFolder: ref.CategoryFolder,
		ProductFolder:  ref.Folder,
		Category:       categoryName,
		Name:           name,
		Price:          parser.ParsePrice(price),
		Images:         []string{cover},
	}
	if hasOldPrice {
		product.OldPrice = parser.ParseOldPrice(oldPrice)
	}
	return product, nil
}

func (f *Fetcher) coverImage(ctx context.Context, ref domain.ProductRef) string {
	if images := f.indexedImages(ref); len(images) > 0 {
		return images[0]
	}
	if images := f.discoverStrict(ctx, ref.Path(), 1); len(images) > 0 {
		return images[0]
	}
	return f.config.PlaceholderImage
}
