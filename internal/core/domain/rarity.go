package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityLabels = [...]string{
	RarityCommon:    "common",
	RarityUncommon:  "uncommon",
	RarityRare:      "rare",
	RarityEpic:      "epic",
	RarityLegendary: "legendary",
}

// RarityFromOrdinal returns the rarity with ordinal n (0-4).
func RarityFromOrdinal(n int) (Rarity, error) {
	if n < int(RarityCommon) || n > int(RarityLegendary) {
		return 0, fmt.Errorf("%w: rarity ordinal %d out of range", ErrInvalidValue, n)
	}
	return Rarity(n), nil
}

// RarityFromLabel matches s case-insensitively against the five labels.
func RarityFromLabel(s string) (Rarity, error) {
	for i, label := range rarityLabels {
		if strings.EqualFold(s, label) {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rarity %q", ErrInvalidValue, s)
}

// ParseRarity accepts either an integer ordinal or a label.
func ParseRarity(s string) (Rarity, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return RarityFromOrdinal(n)
	}
	return RarityFromLabel(s)
}

func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityLegendary
}

func (r Rarity) Label() string {
	if !r.Valid() {
		return ""
	}
	return rarityLabels[r]
}

func (r Rarity) String() string {
	if !r.Valid() {
		return "Rarity(" + strconv.Itoa(int(r)) + ")"
	}
	return r.Label()
}

func (r Rarity) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: rarity ordinal %d out of range", ErrInvalidValue, int(r))
	}
	return json.Marshal(r.Label())
}

func (r *Rarity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		parsed, err := RarityFromOrdinal(n)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: rarity must be a label or an ordinal", ErrInvalidValue)
	}
	parsed, err := ParseRarity(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
