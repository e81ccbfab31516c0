package scanner

// Region groups the benchmark indices of one part of the world.
type Region struct {
	Name    string
	Indices []string
}

// DefaultRegions are the benchmark indices scanned by default.
var DefaultRegions = []Region{
	{Name: "United States", Indices: []string{"^GSPC", "^DJI", "^IXIC"}},
	{Name: "Europe", Indices: []string{"^STOXX50E", "^FTSE", "^GDAXI"}},
	{Name: "Asia", Indices: []string{"^N225", "^HSI", "000001.SS"}},
}

// Components is a simplified constituent list per index.
var Components = map[string][]string{
	"^GSPC":     {"AAPL", "MSFT", "AMZN", "GOOGL", "META", "NVDA", "TSLA", "JPM", "V", "PG"},
	"^DJI":      {"AAPL", "MSFT", "AMZN", "V", "JPM", "WMT", "HD", "PG", "UNH", "DIS"},
	"^IXIC":     {"AAPL", "MSFT", "AMZN", "GOOGL", "META", "NVDA", "TSLA", "PYPL", "INTC", "AMD"},
	"^STOXX50E": {"ASML.AS", "MC.PA", "SAP.DE", "SAN.MC", "AIR.PA"},
	"^FTSE":     {"HSBA.L", "BP.L", "GSK.L", "ULVR.L", "AZN.L"},
	"^GDAXI":    {"SAP.DE", "SIE.DE", "ALV.DE", "LIN.DE", "BAS.DE"},
	"^N225":     {"7203.T", "9984.T", "6758.T", "6954.T", "6861.T"},
	"^HSI":      {"0700.HK", "0941.HK", "0005.HK", "1398.HK", "0388.HK"},
	"000001.SS": {"600519.SS", "601318.SS", "600036.SS", "600276.SS", "601988.SS"},
}

// Universe returns the de-duplicated components of every index in regions,
// in first-seen order.
func Universe(regions []Region) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, r := range regions {
		for _, idx := range r.Indices {
			for _, s := range Components[idx] {
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}
				symbols = append(symbols, s)
			}
		}
	}
	return symbols
}
