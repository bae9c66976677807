package models

// Promotion is a discount code record.
type Promotion struct {
	PromoID     string  `json:"promo_id"`
	PCode       string  `json:"pcode"`
	Discount    float64 `json:"discount"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedBy   *string `json:"created_by"`
	UpdatedBy   *string `json:"updated_by"`
}

// Tax is a tax or service-charge line applied at checkout.
// Type is "tax" or "charges"; ValueType is "percentage" or "pound".
type Tax struct {
	TaxID     string  `json:"tax_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	ValueType string  `json:"value_type"`
	CreatedBy *string `json:"created_by"`
	UpdatedBy *string `json:"updated_by"`
}
