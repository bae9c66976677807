package models

import "time"

// Menu is one recurring weekly slot (week/day) with its dish lineup.
type Menu struct {
	MenuID    string     `json:"menu_id"`
	Week      string     `json:"week"`
	Day       string     `json:"day"`
	MenuName  string     `json:"menu_name"`
	Veg       *string    `json:"veg"`
	NonVeg    *string    `json:"nonveg"`
	Vegan     *string    `json:"vegan"`
	Extra     *string    `json:"extra"`
	Price     float64    `json:"price"`
	CreatedBy *string    `json:"created_by"`
	CreatedOn time.Time  `json:"-"`
	UpdatedBy *string    `json:"updated_by"`
	UpdatedOn *time.Time `json:"-"`
}

// Dish is a single catalog dish, unique by name, grouped by category
// (veg, nonveg, vegan, extra).
type Dish struct {
	DishID    string     `json:"dish_id"`
	DishName  string     `json:"dishname"`
	Category  string     `json:"category"`
	Price     float64    `json:"price"`
	CreatedBy *string    `json:"created_by"`
	CreatedOn time.Time  `json:"-"`
	UpdatedBy *string    `json:"updated_by"`
	UpdatedOn *time.Time `json:"-"`
}
