package models

func (StockInfo) TableName() string {
	return "cl_stock_info"
}

// StockInfo is the reference record of one tradable instrument. The table
// is shared by all markets and partitioned logically by the market column;
// writes replace a market's whole instrument set at once.
type StockInfo struct {
	Market   Market `gorm:"column:market;size:20;index:idx_market_code"`
	Code     string `gorm:"column:code;size:30;index:idx_market_code"`
	Name     string `gorm:"column:name;size:100"`
	Industry string `gorm:"column:industry;size:100"`
	Concept  string `gorm:"column:concept;size:200"`

	TotalShare       float64 `gorm:"column:total_share"`
	FlowShare        float64 `gorm:"column:flow_share"`
	TotalAssets      float64 `gorm:"column:total_assets"`
	LiquidAssets     float64 `gorm:"column:liquid_assets"`
	FixedAssets      float64 `gorm:"column:fixed_assets"`
	Reserved         float64 `gorm:"column:reserved"`
	ReservedPerShare float64 `gorm:"column:reserved_pershare"`
	ESP              float64 `gorm:"column:esp"`
	BVPS             float64 `gorm:"column:bvps"`
	PB               float64 `gorm:"column:pb"`
	PE               float64 `gorm:"column:pe"`
	UNDP             float64 `gorm:"column:undp"`
	PerUNDP          float64 `gorm:"column:perundp"`
	Revenue          float64 `gorm:"column:rev"`
	Profit           float64 `gorm:"column:profit"`
	GPR              float64 `gorm:"column:gpr"`
	NPR              float64 `gorm:"column:npr"`
	Holders          float64 `gorm:"column:holders"`
}
