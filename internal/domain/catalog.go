package domain

import "time"

type Category struct {
	Folder         string    `json:"folder"`          // Folder identifier under the asset root
	Name           string    `json:"name"`            // Display name from category_name.txt
	ProductFolders []string  `json:"product_folders"` // Enumerated product folders, in order
	Products       []Product `json:"products"`
}

type Catalog struct {
	SessionID   string     `json:"session_id"`
	ContactLink string     `json:"contact_link,omitempty"` // Global call-to-action URL from link.txt
	Mode        FetchMode  `json:"mode"`
	BuiltAt     time.Time  `json:"built_at"`
	Categories  []Category `json:"categories"`
}

// Product looks a product up by its composite identifier.
func (c *Catalog) Product(id string) (*Product, bool) {
	for i := range c.Categories {
		for j := range c.Categories[i].Products {
			if c.Categories[i].Products[j].ID == id {
				return &c.Categories[i].Products[j], true
			}
		}
	}
	return nil, false
}

func (c *Catalog) ProductCount() int {
	total := 0
	for _, category := range c.Categories {
		total += len(category.Products)
	}
	return total
}
