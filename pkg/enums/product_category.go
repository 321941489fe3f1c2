package enums

import "fmt"

// ProductCategory is the fixed catalog taxonomy.
type ProductCategory string

const (
	ProductCategoryBakery       ProductCategory = "bakery"
	ProductCategoryDairy        ProductCategory = "dairy"
	ProductCategoryBeverages    ProductCategory = "beverages"
	ProductCategoryVegetables   ProductCategory = "vegetables"
	ProductCategoryFruits       ProductCategory = "fruits"
	ProductCategoryDryFruits    ProductCategory = "dry_fruits"
	ProductCategorySnacks       ProductCategory = "snacks"
	ProductCategoryGrainsPulses ProductCategory = "grains_pulses"
	ProductCategoryFrozen       ProductCategory = "frozen"
	ProductCategoryHousehold    ProductCategory = "household"
	ProductCategoryPersonalCare ProductCategory = "personal_care"
	ProductCategoryOthers       ProductCategory = "others"
)

var validProductCategories = []ProductCategory{
	ProductCategoryBakery,
	ProductCategoryDairy,
	ProductCategoryBeverages,
	ProductCategoryVegetables,
	ProductCategoryFruits,
	ProductCategoryDryFruits,
	ProductCategorySnacks,
	ProductCategoryGrainsPulses,
	ProductCategoryFrozen,
	ProductCategoryHousehold,
	ProductCategoryPersonalCare,
	ProductCategoryOthers,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
