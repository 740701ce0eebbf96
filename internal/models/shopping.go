package models

// ShoppingItem is one consolidated line of a shopping list
type ShoppingItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}
