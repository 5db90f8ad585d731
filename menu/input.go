package menu

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const maxTitleLength = 255

// maxPrice is the first amount that no longer fits NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

// MenuCreate holds the fields accepted when creating a menu.
type MenuCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// Validate checks the create input.
func (in MenuCreate) Validate() error {
	return wrapValidation(KindMenu, validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleLength)),
	))
}

// MenuUpdate holds the fields a menu update may replace. Nil fields are kept.
type MenuUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Validate checks the update input.
func (in MenuUpdate) Validate() error {
	return wrapValidation(KindMenu, validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
	))
}

// SubmenuCreate holds the fields accepted when creating a submenu.
type SubmenuCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// Validate checks the create input.
func (in SubmenuCreate) Validate() error {
	return wrapValidation(KindSubmenu, validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleLength)),
	))
}

// SubmenuUpdate holds the fields a submenu update may replace. Nil fields are kept.
type SubmenuUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Validate checks the update input.
func (in SubmenuUpdate) Validate() error {
	return wrapValidation(KindSubmenu, validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
	))
}

// DishCreate holds the fields accepted when creating a dish.
type DishCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       *Price  `json:"price"`
}

// Validate checks the create input.
func (in DishCreate) Validate() error {
	return wrapValidation(KindDish, validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&in.Price, validation.NotNil, validation.By(priceInRange)),
	))
}

// DishUpdate holds the fields a dish update may replace. Nil fields are kept.
type DishUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *Price  `json:"price"`
}

// Validate checks the update input.
func (in DishUpdate) Validate() error {
	return wrapValidation(KindDish, validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, maxTitleLength)),
		validation.Field(&in.Price, validation.By(priceInRange)),
	))
}

func priceInRange(value any) error {
	p, ok := value.(*Price)
	if !ok || p == nil {
		return nil
	}
	if p.Decimal().IsNegative() {
		return errors.New("must not be negative")
	}
	if p.Decimal().GreaterThanOrEqual(maxPrice) {
		return errors.New("must be less than 100000000")
	}
	return nil
}

func wrapValidation(kind Kind, err error) error {
	if err == nil {
		return nil
	}

	fields := map[string]string{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for name, ferr := range verrs {
			fields[name] = ferr.Error()
		}
	} else {
		fields["_"] = err.Error()
	}
	return &ValidationError{Kind: kind, Fields: fields}
}
