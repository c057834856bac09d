package robinhood

import "strings"

// Endpoint construction for the two API generations: equities live under
// api.robinhood.com, crypto under nummus.robinhood.com (quotes excepted).
const (
	apiBase    = "https://api.robinhood.com"
	cryptoBase = "https://nummus.robinhood.com"
)

func epLogin() string  { return apiBase + "/oauth2/token/" }
func epLogout() string { return apiBase + "/oauth2/revoke_token/" }

func epAccounts() string    { return apiBase + "/accounts/" }
func epPortfolios() string  { return apiBase + "/portfolios/" }
func epPositions() string   { return apiBase + "/positions/" }
func epInstruments() string { return apiBase + "/instruments/" }

func epOrders() string         { return apiBase + "/orders/" }
func epOrder(id string) string { return apiBase + "/orders/" + id + "/" }

func epQuotes(symbol string) string {
	return apiBase + "/quotes/?symbols=" + strings.ToUpper(symbol)
}

func epFundamentals(symbol string) string {
	return apiBase + "/fundamentals/" + strings.ToUpper(symbol) + "/"
}

func epCryptoAccounts() string { return cryptoBase + "/accounts/" }
func epCryptoOrders() string   { return cryptoBase + "/orders/" }

func epCryptoOrder(id string) string { return cryptoBase + "/orders/" + id + "/" }

// Crypto quotes are served from the equity host's marketdata tree.
func epCryptoQuote(symbol string) string {
	return apiBase + "/marketdata/forex/quotes/" + fixCryptoSymbol(symbol) + "/"
}

// fixCryptoSymbol normalizes "btc" to the venue's "BTCUSD" pair form.
func fixCryptoSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	if strings.HasSuffix(symbol, "USD") {
		return symbol
	}
	return symbol + "USD"
}

// cryptoPairIDs maps pair symbols to the venue's currency_pair_id GUIDs,
// required by the nummus order endpoint.
var cryptoPairIDs = map[string]string{
	"BTCUSD":  "3d961844-d360-45fc-989b-f6fca761d511",
	"ETHUSD":  "76637d50-c702-4ed1-bcb5-5b0732a81f48",
	"ETCUSD":  "7b577ce3-489d-4269-9408-796a0d1abb3a",
	"BCHUSD":  "2f2b77c4-e426-4271-ae49-18d5cb296d3a",
	"BSVUSD":  "086a8f9f-6c39-43fa-ac9f-57952f4a1ba6",
	"LTCUSD":  "383280b1-ff53-43fc-9c84-f01afd0989cd",
	"DOGEUSD": "1ef78e1b-049b-4f12-90e5-555dcf2fe204",
}
