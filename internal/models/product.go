package models

// ProductType classifies a financial product in the catalog
type ProductType string

const (
	ProductTypeMutualFund ProductType = "mutual_fund"
	ProductTypeCreditCard ProductType = "credit_card"
	ProductTypeSavings    ProductType = "savings"
	ProductTypeInsurance  ProductType = "insurance"
	ProductTypeFD         ProductType = "fixed_deposit"
	ProductTypeBond       ProductType = "bond"
)

// RiskLevel is the risk classification of a product
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
)

// Product represents an entry in the externally curated, read-only
// product catalog. ExpectedReturn is an annual percentage.
type Product struct {
	Base
	Name           string      `gorm:"not null" json:"name"`
	Type           ProductType `gorm:"column:product_type;not null" json:"product_type"`
	RiskLevel      RiskLevel   `gorm:"not null" json:"risk_level"`
	ExpectedReturn float64     `json:"expected_return"`
	MinInvestment  float64     `json:"min_investment"`
	Issuer         string      `json:"issuer,omitempty"`
	AnnualFee      *float64    `json:"annual_fee,omitempty"`
	RewardsType    string      `json:"rewards_type,omitempty"`
	Description    string      `json:"description,omitempty"`
}
