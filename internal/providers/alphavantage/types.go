package alphavantage

// --- Alpha Vantage API response types ---

// avExchangeRateResponse wraps the CURRENCY_EXCHANGE_RATE response.
// Alpha Vantage signals throttling and errors inside a 200 body, so the
// message fields live alongside the rate object.
type avExchangeRateResponse struct {
	RealtimeCurrencyExchangeRate *avExchangeRate `json:"Realtime Currency Exchange Rate"`
	Note                         string          `json:"Note"`
	Information                  string          `json:"Information"`
	ErrorMessage                 string          `json:"Error Message"`
}

type avExchangeRate struct {
	FromCurrencyCode string `json:"1. From_Currency Code"`
	FromCurrencyName string `json:"2. From_Currency Name"`
	ToCurrencyCode   string `json:"3. To_Currency Code"`
	ToCurrencyName   string `json:"4. To_Currency Name"`
	ExchangeRate     string `json:"5. Exchange Rate"`
	LastRefreshed    string `json:"6. Last Refreshed"`
	TimeZone         string `json:"7. Time Zone"`
	BidPrice         string `json:"8. Bid Price"`
	AskPrice         string `json:"9. Ask Price"`
}
