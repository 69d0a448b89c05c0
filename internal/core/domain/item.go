package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTextLength = 255

// MaxQuantity is the largest value the quantity column (INT UNSIGNED) holds.
const MaxQuantity = math.MaxUint32

type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Rarity    Rarity    `json:"rarity"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewItem carries the fields of an item that does not have an id yet.
type NewItem struct {
	Name     string
	Type     string
	Rarity   Rarity
	Quantity int
}

func (n NewItem) Validate() error {
	if err := validateText("name", n.Name); err != nil {
		return err
	}
	if err := validateText("type", n.Type); err != nil {
		return err
	}
	if !n.Rarity.Valid() {
		return fmt.Errorf("%w: rarity ordinal %d out of range", ErrInvalidValue, int(n.Rarity))
	}
	return ValidateQuantity(n.Quantity)
}

func ValidateQuantity(q int) error {
	if q < 0 {
		return fmt.Errorf("%w: quantity must be >= 0, got %d", ErrInvalidValue, q)
	}
	if int64(q) > MaxQuantity {
		return fmt.Errorf("%w: quantity must be <= %d, got %d", ErrInvalidValue, int64(MaxQuantity), q)
	}
	return nil
}

func validateText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidValue, field)
	}
	if utf8.RuneCountInString(v) > MaxTextLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidValue, field, MaxTextLength)
	}
	return nil
}
