package endpoint

import "fmt"

const (
	GroupCryptocurrency = "cryptocurrency"
	GroupExchange       = "exchange"
	GroupGlobalMetrics  = "global-metrics"
	GroupTools          = "tools"
	GroupBlockchain     = "blockchain"
	GroupFiat           = "fiat"
	GroupPartners       = "partners"
	GroupKey            = "key"
	GroupFearAndGreed   = "fear-and-greed"
)

var (
	convert     = []string{"convert", "convert_id"}
	paging      = []string{"start", "limit"}
	cryptoIDs   = []string{"id", "slug", "symbol"}
	exchangeIDs = []string{"id", "slug"}
	history     = []string{"time_start", "time_end", "count", "interval"}
)

// Catalog is the closed set of routes this service forwards.
type Catalog struct {
	endpoints []Endpoint
	index     map[string]int
}

func NewCatalog(endpoints ...Endpoint) (*Catalog, error) {
	c := &Catalog{
		endpoints: make([]Endpoint, 0, len(endpoints)),
		index:     make(map[string]int, len(endpoints)),
	}
	for _, e := range endpoints {
		if _, dup := c.index[e.Key()]; dup {
			return nil, fmt.Errorf("duplicate endpoint %s", e.Key())
		}
		c.index[e.Key()] = len(c.endpoints)
		c.endpoints = append(c.endpoints, e)
	}
	return c, nil
}

// All returns the endpoints in registration order.
func (c *Catalog) All() []Endpoint {
	out := make([]Endpoint, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

func (c *Catalog) Lookup(method, path string) (Endpoint, bool) {
	i, ok := c.index[routeKey(method, path)]
	if !ok {
		return Endpoint{}, false
	}
	return c.endpoints[i], true
}

func (c *Catalog) Len() int {
	return len(c.endpoints)
}

// Default is the CoinMarketCap API surface.
func Default() *Catalog {
	c, err := NewCatalog(defaultEndpoints()...)
	if err != nil {
		panic(err)
	}
	return c
}

func defaultEndpoints() []Endpoint {
	var out []Endpoint
	out = append(out, cryptocurrencyEndpoints()...)
	out = append(out, exchangeEndpoints()...)
	out = append(out,
		get(GroupGlobalMetrics, "/v1/global-metrics/quotes/latest", convert),
		get(GroupGlobalMetrics, "/v1/global-metrics/quotes/historical", with(history, with(convert, "aux")...)),

		get(GroupTools, "/v1/tools/price-conversion",
			with(convert, "amount", "id", "symbol", "time"), []string{"amount"}, []string{"id", "symbol"}),
		get(GroupTools, "/v2/tools/price-conversion",
			with(convert, "amount", "id", "symbol", "time"), []string{"amount"}, []string{"id", "symbol"}),

		get(GroupBlockchain, "/v1/blockchain/statistics/latest", cryptoIDs, cryptoIDs),

		get(GroupFiat, "/v1/fiat/map", with(paging, "sort", "include_metals")),

		get(GroupPartners, "/v1/partners/flipside-crypto/fcas/listings/latest", with(paging, "aux")),
		get(GroupPartners, "/v1/partners/flipside-crypto/fcas/quotes/latest", with(cryptoIDs, "aux"), cryptoIDs),

		get(GroupKey, "/v1/key/info", nil),

		get(GroupFearAndGreed, "/v3/fear-and-greed/latest", nil),
		get(GroupFearAndGreed, "/v3/fear-and-greed/historical", paging),
	)
	return out
}

func cryptocurrencyEndpoints() []Endpoint {
	quotesLatest := with(cryptoIDs, with(convert, "aux", "skip_invalid")...)
	quotesHistorical := with(history, with(convert, "id", "symbol", "aux", "skip_invalid")...)
	marketPairs := with(cryptoIDs, with(paging,
		"sort_dir", "sort", "aux", "matched_id", "matched_symbol", "category", "fee_type", "convert", "convert_id")...)
	ohlcvLatest := with(convert, "id", "symbol", "skip_invalid")
	ohlcvHistorical := with(cryptoIDs, with(convert,
		"time_period", "time_start", "time_end", "count", "interval", "skip_invalid")...)
	pricePerformance := with(cryptoIDs, with(convert, "time_period", "skip_invalid")...)
	info := with(cryptoIDs, "address", "aux", "skip_invalid")
	trending := with(paging, with(convert, "time_period")...)

	return []Endpoint{
		get(GroupCryptocurrency, "/v1/cryptocurrency/map",
			with(paging, "listing_status", "sort", "symbol", "aux")),
		get(GroupCryptocurrency, "/v1/cryptocurrency/info", info, with(cryptoIDs, "address")),
		get(GroupCryptocurrency, "/v2/cryptocurrency/info", info, with(cryptoIDs, "address")),
		get(GroupCryptocurrency, "/v1/cryptocurrency/listings/latest", with(paging, with(convert,
			"price_min", "price_max", "market_cap_min", "market_cap_max",
			"volume_24h_min", "volume_24h_max", "circulating_supply_min", "circulating_supply_max",
			"percent_change_24h_min", "percent_change_24h_max",
			"sort", "sort_dir", "cryptocurrency_type", "tag", "aux")...)),
		get(GroupCryptocurrency, "/v1/cryptocurrency/listings/historical", with(paging, with(convert,
			"date", "sort", "sort_dir", "cryptocurrency_type", "aux")...), []string{"date"}),
		get(GroupCryptocurrency, "/v1/cryptocurrency/listings/new", with(paging, with(convert, "sort_dir")...)),
		get(GroupCryptocurrency, "/v1/cryptocurrency/quotes/latest", quotesLatest, cryptoIDs),
		get(GroupCryptocurrency, "/v2/cryptocurrency/quotes/latest", quotesLatest, cryptoIDs),
		get(GroupCryptocurrency, "/v1/cryptocurrency/quotes/historical", quotesHistorical, []string{"id", "symbol"}),
		get(GroupCryptocurrency, "/v2/cryptocurrency/quotes/historical", quotesHistorical, []string{"id", "symbol"}),
		get(GroupCryptocurrency, "/v1/cryptocurrency/market-pairs/latest", marketPairs, cryptoIDs),
		get(GroupCryptocurrency, "/v2/cryptocurrency/market-pairs/latest", marketPairs, cryptoIDs),
		get(GroupCryptocurrency, "/v1/cryptocurrency/ohlcv/latest", ohlcvLatest, []string{"id", "symbol"}),
		get(GroupCryptocurrency, "/v2/cryptocurrency/ohlcv/latest", ohlcvLatest, []string{"id", "symbol"}),
		get(GroupCryptocurrency, "/v1/cryptocurrency/ohlcv/historical", ohlcvHistorical, cryptoIDs),
		get(GroupCryptocurrency, "/v2/cryptocurrency/ohlcv/historical", ohlcvHistorical, cryptoIDs),
		get(GroupCryptocurrency, "/v1/cryptocurrency/price-performance-stats/latest", pricePerformance, cryptoIDs),
		get(GroupCryptocurrency, "/v2/cryptocurrency/price-performance-stats/latest", pricePerformance, cryptoIDs),
		get(GroupCryptocurrency, "/v1/cryptocurrency/categories", with(paging, cryptoIDs...)),
		get(GroupCryptocurrency, "/v1/cryptocurrency/category", with(paging, with(convert, "id")...), []string{"id"}),
		get(GroupCryptocurrency, "/v1/cryptocurrency/airdrops", with(paging, with(cryptoIDs, "status")...)),
		get(GroupCryptocurrency, "/v1/cryptocurrency/airdrop", []string{"id"}, []string{"id"}),
		get(GroupCryptocurrency, "/v1/cryptocurrency/trending/latest", trending),
		get(GroupCryptocurrency, "/v1/cryptocurrency/trending/most-visited", trending),
		get(GroupCryptocurrency, "/v1/cryptocurrency/trending/gainers-losers", with(trending, "sort", "sort_dir")),
	}
}

func exchangeEndpoints() []Endpoint {
	return []Endpoint{
		get(GroupExchange, "/v1/exchange/map",
			with(paging, "listing_status", "slug", "sort", "aux", "crypto_id")),
		get(GroupExchange, "/v1/exchange/info", with(exchangeIDs, "aux"), exchangeIDs),
		get(GroupExchange, "/v1/exchange/listings/latest", with(paging, with(convert,
			"sort", "sort_dir", "market_type", "category", "aux")...)),
		get(GroupExchange, "/v1/exchange/quotes/latest", with(exchangeIDs, with(convert, "aux")...), exchangeIDs),
		get(GroupExchange, "/v1/exchange/quotes/historical", with(exchangeIDs, with(history, convert...)...), exchangeIDs),
		get(GroupExchange, "/v1/exchange/market-pairs/latest", with(exchangeIDs, with(paging, with(convert,
			"aux", "matched_id", "matched_symbol", "market_type", "category", "fee_type")...)...), exchangeIDs),
		get(GroupExchange, "/v1/exchange/assets", []string{"id"}, []string{"id"}),
	}
}
