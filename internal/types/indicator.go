package types

// IndicatorType names a column family produced by the indicator engine.
type IndicatorType string

const (
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeTDI            IndicatorType = "tdi"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeATR            IndicatorType = "atr"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMA             IndicatorType = "ma"
)
