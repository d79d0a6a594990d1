package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultName        = "Name not found"
	DefaultDescription = "No description available."
)

type Product struct {
	ID             string   `json:"id"`              // "<category>-<product>"
	CategoryFolder string   `json:"category_folder"` // Folder of the owning category
	ProductFolder  string   `json:"product_folder"`  // Folder of the product inside the category
	Category       string   `json:"category"`        // Display name of the owning category
	Name           string   `json:"name"`
	Price          float64  `json:"price"`               // 0 means "price on request"
	OldPrice       *float64 `json:"old_price,omitempty"` // Pre-discount price, only with old_price.txt
	Description    string   `json:"description,omitempty"`
	Excerpt        string   `json:"excerpt,omitempty"` // Plain-text description for listing cards
	Images         []string `json:"images"`
	Detailed       bool     `json:"detailed"` // False for summary projections
}

func (p *Product) OnRequest() bool {
	return p.Price <= 0
}

// ProductID builds the composite identifier used by consumers.
func ProductID(categoryFolder, productFolder string) string {
	return categoryFolder + "-" + productFolder
}

// ParseProductID splits a composite identifier at its last dash, so category
// folders may contain dashes themselves.
func ParseProductID(id string) (string, string, error) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidProductID, id)
	}
	return id[:idx], id[idx+1:], nil
}
