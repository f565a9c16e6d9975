package domain

// Product is the read model decoded from a catalog document.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Featured    bool     `json:"featured"`
	Suggested   bool     `json:"suggested"`
	CreatedAt   int64    `json:"created_at"`
}

// SubCategory groups products under a parent category.
type SubCategory struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ImageURL         string `json:"image_url"`
	ParentCategoryID string `json:"parent_category_id"`
}
