package entity

import (
	"errors"
	"time"
)

// Product is a catalog master. Its SKU is the base code without any
// variant suffix; variants hang off it with their own suffix.
type Product struct {
	SKU              string     `json:"sku" gorm:"primaryKey;size:32"`
	Name             string     `json:"name" gorm:"size:128"`
	WeightG          float64    `json:"weight_g" gorm:"type:numeric(10,3);not null;default:0"`
	SecondaryWeightG float64    `json:"secondary_weight_g" gorm:"type:numeric(10,3);not null;default:0"`
	Gender           string     `json:"gender" gorm:"size:8;not null;default:women"`
	PlatingType      string     `json:"plating_type" gorm:"size:4"`
	SellingPrice     float64    `json:"selling_price" gorm:"type:numeric(12,2);not null;default:0"`
	IsComponent      bool       `json:"is_component" gorm:"not null;default:false"`
	SupplierCost     *float64   `json:"supplier_cost,omitempty" gorm:"type:numeric(12,2)"`
	SupplierSKU      string     `json:"supplier_sku,omitempty" gorm:"size:64"`
	Labor            LaborCost  `json:"labor" gorm:"embedded;embeddedPrefix:labor_"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	// Relations
	Recipe   []RecipeItem     `json:"recipe,omitempty" gorm:"foreignKey:ProductSKU;references:SKU"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductSKU;references:SKU"`
}

func (Product) TableName() string {
	return "products"
}

// Gender values
const (
	GenderWomen = "women"
	GenderMen   = "men"
)

// RecipeItem type discriminator
const (
	RecipeItemRaw       = "raw"
	RecipeItemComponent = "component"
)

var (
	ErrRecipeItemShape    = errors.New("recipe item fields do not match its type")
	ErrRecipeItemQuantity = errors.New("recipe item quantity must be positive")
)

// RecipeItem is one line of a product's bill of materials: either a raw
// material draw or a nested sub-component, never both. The Type field is
// the tag; Validate rejects mixed or empty shapes so an invalid row can
// not reach the cost resolver.
type RecipeItem struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProductSKU   string    `json:"product_sku" gorm:"size:32;not null;index"`
	Type         string    `json:"type" gorm:"size:16;not null"`
	MaterialID   *string   `json:"material_id,omitempty" gorm:"size:32"`
	ComponentSKU *string   `json:"component_sku,omitempty" gorm:"size:32"`
	Quantity     float64   `json:"quantity" gorm:"type:numeric(12,4);not null;default:1"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (RecipeItem) TableName() string {
	return "recipe_items"
}

func (ri *RecipeItem) Validate() error {
	if ri.Quantity <= 0 {
		return ErrRecipeItemQuantity
	}
	switch ri.Type {
	case RecipeItemRaw:
		if ri.MaterialID == nil || *ri.MaterialID == "" || ri.ComponentSKU != nil {
			return ErrRecipeItemShape
		}
	case RecipeItemComponent:
		if ri.ComponentSKU == nil || *ri.ComponentSKU == "" || ri.MaterialID != nil {
			return ErrRecipeItemShape
		}
	default:
		return ErrRecipeItemShape
	}
	return nil
}

// ProductVariant is one sellable variation of a master (finish and/or
// stone). ActivePrice is a cache of the derived cost: it is recomputed by
// the reconciliation pass and never hand-edited.
type ProductVariant struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProductSKU   string    `json:"product_sku" gorm:"size:32;not null;index:idx_variant_sku_suffix,unique"`
	Suffix       string    `json:"suffix" gorm:"size:8;index:idx_variant_sku_suffix,unique"`
	Description  string    `json:"description" gorm:"size:128"`
	SellingPrice *float64  `json:"selling_price,omitempty" gorm:"type:numeric(12,2)"`
	ActivePrice  float64   `json:"active_price" gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// LaborCost carries the per-piece labor fields. Derivable fields are
// modelled as optional pins: a nil pointer means "derive from weight and
// recipe on every recomputation", a non-nil one is an operator override
// that recomputation must never touch. Setter and subcontract cost have
// no derivation and are always entered by hand.
type LaborCost struct {
	CastingPin      *float64 `json:"casting_pin,omitempty" gorm:"type:numeric(10,2)"`
	TechnicianPin   *float64 `json:"technician_pin,omitempty" gorm:"type:numeric(10,2)"`
	PlatingXPin     *float64 `json:"plating_x_pin,omitempty" gorm:"type:numeric(10,2)"`
	PlatingDPin     *float64 `json:"plating_d_pin,omitempty" gorm:"type:numeric(10,2)"`
	SetterCost      float64  `json:"setter_cost" gorm:"type:numeric(10,2);not null;default:0"`
	SubcontractCost float64  `json:"subcontract_cost" gorm:"type:numeric(10,2);not null;default:0"`
}
