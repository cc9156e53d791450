package servicetype

// ServiceType is one bookable offering from the catalog. Read-mostly
// reference data.
type ServiceType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"basePrice"`
}
