package domain

// CategoryRef is a category as enumerated by the manifest, before any product is fetched.
type CategoryRef struct {
	Folder   string       `json:"folder"`
	Name     string       `json:"name"`
	Products []ProductRef `json:"products,omitempty"`
	Indexed  bool         `json:"-"` // Products come from the index, no probing needed
}

type ProductRef struct {
	CategoryFolder string   `json:"-"`
	Folder         string   `json:"folder"`
	Name           string   `json:"-"`                // Read while probing, empty when unknown
	Images         []string `json:"images,omitempty"` // Image file names from the index
}

func (r ProductRef) Path() string {
	return r.CategoryFolder + "/" + r.Folder
}

func (r ProductRef) ID() string {
	return ProductID(r.CategoryFolder, r.Folder)
}
