package provider

// ModelType represents a standard data model type.
// Each ModelType maps to a specific data structure in pkg/models/.
type ModelType string

// --- Crypto / Price ---
const (
	// ModelSpotPrice is a single current price lookup. Data: *models.SpotPrice.
	ModelSpotPrice ModelType = "SpotPrice"

	// ModelCryptoHistorical is a candle series lookup. Data: models.Series.
	ModelCryptoHistorical ModelType = "CryptoHistorical"
)

// AllModels returns all defined model types. Useful for iteration and validation.
func AllModels() []ModelType {
	return []ModelType{
		ModelSpotPrice,
		ModelCryptoHistorical,
	}
}
