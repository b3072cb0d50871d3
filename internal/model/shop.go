package model

// ShopItem is an entry of the class shop catalog.
type ShopItem struct {
	ID          string
	Name        string `validate:"required"`
	Cost        int64  `validate:"gt=0"`
	Category    string
	Description string
	Icon        string
	// Tag is a promotional label such as "NEW"; empty means none.
	Tag string
}
