package store

import "time"

type Language string

const (
	LangAr Language = "ar"
	LangEn Language = "en"
)

type InventoryItem struct {
	ColorCode string    `json:"colorCode"`
	NameAr    string    `json:"nameAr"`
	NameEn    string    `json:"nameEn"`
	Hex       string    `json:"hex"`
	SortOrder int       `json:"sortOrder"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Name returns the display name in the given language.
func (i InventoryItem) Name(lang Language) string {
	if lang == LangAr {
		return i.NameAr
	}
	return i.NameEn
}

type PackConfig struct {
	Size      int    `json:"size"`
	TitleAr   string `json:"titleAr"`
	TitleEn   string `json:"titleEn"`
	DescAr    string `json:"descAr"`
	DescEn    string `json:"descEn"`
	Badge     string `json:"badge"`
	SortOrder int    `json:"sortOrder"`
}

type OrderItem struct {
	ColorCode string `json:"colorCode"`
	Qty       int    `json:"qty"`
}

type CustomerDetails struct {
	Name          string `json:"name"`
	Mobile        string `json:"mobile"`
	City          string `json:"city"`
	Address       string `json:"address"`
	PreferredTime string `json:"preferredTime"` // Morning | Evening
}

type Order struct {
	ID         string          `json:"id"`
	OrderCode  string          `json:"orderCode"`
	Language   Language        `json:"language"`
	PackSize   int             `json:"packSize"`
	Items      []OrderItem     `json:"items"`
	Customer   CustomerDetails `json:"customer"`
	TotalPrice int             `json:"totalPrice"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewOrder is the order-placement input as submitted by the storefront.
type NewOrder struct {
	Language Language        `json:"language"`
	PackSize int             `json:"packSize"`
	Items    []OrderItem     `json:"items"`
	Customer CustomerDetails `json:"customer"`
}

type ImageAsset struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	RefKey    string    `json:"ref_key"`
	ImageURL  string    `json:"image_url"`
	SortOrder int       `json:"sort_order"`
	UpdatedAt time.Time `json:"updated_at"`
}
