package universe

// Curated fallback constituent lists, used when the live index source is
// unreachable or returns nothing. Organized by sector; last reviewed
// August 2026.

var staticSP500 = []string{
	// Technology
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "META", "NVDA", "TSLA", "NFLX", "ADBE",
	"AMD", "INTC", "QCOM", "AVGO", "MU", "AMAT", "LRCX", "KLAC", "MRVL", "NXPI",
	"TXN", "ADI", "MPWR", "ON", "MCHP", "SWKS", "QRVO", "ENTG", "CRM", "ORCL",
	"INTU", "NOW", "WDAY", "PANW", "SNOW", "DDOG", "NET", "CRWD", "ZS", "OKTA",
	"FTNT", "TEAM", "HUBS", "VEEV", "GDDY", "TWLO", "MDB", "ACN", "IBM", "CSCO",
	"ANET", "APH", "TEL", "GLW", "NTAP", "HPE", "DELL", "HPQ", "SMCI", "STX",
	"WDC", "JBL", "V", "MA", "PYPL", "AXP", "FIS", "GPN", "CPAY", "TOST",
	// Healthcare
	"LLY", "JNJ", "UNH", "PFE", "ABBV", "MRK", "TMO", "ABT", "BMY", "AMGN",
	"GILD", "CVS", "CI", "HUM", "MCK", "COR", "CAH", "ZTS", "ELV", "CNC",
	"REGN", "VRTX", "BIIB", "MRNA", "ILMN", "ALNY", "INCY", "EXAS", "IONS", "BMRN",
	"SRPT", "NBIX", "UTHR", "ISRG", "DHR", "SYK", "BSX", "MDT", "EW", "HOLX",
	"ALGN", "DXCM", "PODD", "IDXX", "RMD", "BDX", "BAX", "ZBH", "STE", "GEHC",
	"A", "HCA", "UHS", "CRL", "IQV", "LH", "DGX", "MOH", "DVA", "CHE",
	// Financials
	"JPM", "BAC", "WFC", "C", "USB", "PNC", "TFC", "COF", "KEY", "FITB",
	"RF", "CFG", "HBAN", "MTB", "ZION", "CMA", "GS", "MS", "SCHW", "BLK",
	"SPGI", "MCO", "CME", "ICE", "NDAQ", "CBOE", "MKTX", "IBKR", "LPLA", "RJF",
	"BRK-B", "PGR", "ALL", "TRV", "AIG", "MET", "PRU", "AFL", "CINF", "L",
	"GL", "WRB", "AIZ", "AJG", "MMC", "AON", "BRO", "ERIE", "HIG",
	// Consumer discretionary
	"HD", "LOW", "TGT", "COST", "WMT", "DG", "DLTR", "BBY", "ROST", "TJX",
	"TSCO", "AZO", "ORLY", "KMX", "EBAY", "ETSY", "RH", "WSM", "CVNA", "MCD",
	"SBUX", "YUM", "CMG", "DPZ", "QSR", "WEN", "TXRH", "WING", "NKE", "LULU",
	"VFC", "CROX", "DECK", "RL", "PVH", "GM", "F", "RIVN", "APTV", "BWA",
	"BKNG", "MAR", "HLT", "ABNB", "EXPE", "UBER", "LYFT", "DASH", "TRIP",
	// Communication services
	"DIS", "CMCSA", "T", "TMUS", "VZ", "CHTR", "SPOT", "RBLX", "EA", "TTWO",
	"LYV", "WBD", "FOXA", "FOX", "NWSA", "NWS", "NYT", "IPG", "OMC", "ROKU", "MTCH",
	// Industrials
	"BA", "RTX", "LMT", "GD", "NOC", "TDG", "HWM", "LHX", "TXT", "HII",
	"AXON", "LDOS", "CAT", "DE", "CMI", "ETN", "EMR", "HON", "ITW", "ROK",
	"PH", "AME", "DOV", "IR", "XYL", "FTV", "GNRC", "AOS", "BLDR", "WSO",
	"UNP", "UPS", "FDX", "NSC", "CSX", "JBHT", "ODFL", "XPO", "CHRW", "EXPD",
	"GE", "MMM", "DHI", "LEN", "PHM", "TOL", "NVR", "BLD", "OC", "VMC",
	"MLM", "MAS", "CARR", "JCI", "TRMB", "LECO",
	// Energy
	"XOM", "CVX", "COP", "EOG", "SLB", "MPC", "VLO", "PSX", "OXY", "HAL",
	"BKR", "OKE", "WMB", "KMI", "HES", "DVN", "FANG", "APA", "CTRA", "EQT",
	"FTI", "NOV", "ENPH", "FSLR",
	// Consumer staples
	"PG", "KO", "PEP", "PM", "MO", "CL", "MDLZ", "GIS", "KHC", "HSY",
	"K", "CPB", "CAG", "SJM", "HRL", "MKC", "TSN", "BF-B", "STZ", "TAP",
	"KDP", "MNST", "CELH", "KR", "SYY", "ADM", "BG", "EL", "CLX", "CHD",
	"KMB", "CASY",
	// Materials
	"LIN", "APD", "SHW", "ECL", "DD", "DOW", "NEM", "FCX", "NUE", "STLD",
	"ALB", "CE", "FMC", "IFF", "PPG", "RPM", "SEE", "AVY", "IP", "PKG",
	"AMCR", "MOS",
	// Utilities
	"NEE", "DUK", "SO", "D", "AEP", "SRE", "EXC", "XEL", "ED", "PEG",
	"WEC", "ES", "DTE", "ETR", "FE", "PPL", "AEE", "CMS", "CNP", "NI",
	"ATO", "EVRG", "LNT", "PNW",
	// Real estate
	"AMT", "PLD", "EQIX", "PSA", "DLR", "SPG", "O", "WELL", "AVB", "EQR",
	"VTR", "ARE", "MAA", "UDR", "ESS", "CPT", "EXR", "CUBE",
}

var staticNasdaq100 = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "META", "GOOGL", "GOOG", "AVGO", "TSLA", "COST",
	"NFLX", "AMD", "PEP", "ADBE", "CSCO", "QCOM", "TMUS", "INTC", "INTU", "AMAT",
	"TXN", "CMCSA", "HON", "AMGN", "ISRG", "BKNG", "VRTX", "ADP", "SBUX", "MU",
	"GILD", "ADI", "LRCX", "MDLZ", "REGN", "PYPL", "MELI", "PANW", "KLAC", "SNPS",
	"CDNS", "ASML", "MAR", "ABNB", "CRWD", "ORLY", "CTAS", "NXPI", "MRVL", "CSX",
	"WDAY", "FTNT", "PCAR", "ADSK", "ROP", "DXCM", "CHTR", "TTD", "MNST", "AEP",
	"ROST", "KDP", "PAYX", "ODFL", "FAST", "DDOG", "EA", "GEHC", "BKR", "VRSK",
	"CTSH", "EXC", "XEL", "CCEP", "TEAM", "IDXX", "ZS", "CSGP", "ANSS", "DLTR",
	"MRNA", "ILMN", "WBD", "GFS", "ON", "BIIB", "CDW", "ARM", "SMCI", "MDB",
}

// growthSectors is the sector set behind the growth universe mode.
var growthSectors = []string{"Technology", "Healthcare", "Consumer Cyclical"}

func staticList(index string) []string {
	switch index {
	case "nasdaq100":
		return staticNasdaq100
	default:
		return staticSP500
	}
}
