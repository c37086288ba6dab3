package models

import (
	"fmt"
	"strings"

	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
)

// TypesSeparator joins the type names of a Pokemon in its storage form.
const TypesSeparator = ", "

// Pokemon is the validated form of a PokeAPI payload.
// Weight and Height are already converted to kilograms and metres.
type Pokemon struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
	Weight float64  `json:"weight"`
	Height float64  `json:"height"`
	Sprite string   `json:"sprite"`
}

// Validate checks the field constraints and reports the first failing field.
func (p Pokemon) Validate() error {
	if p.ID <= 0 {
		return etlerrors.NewValidationError("id", fmt.Sprintf("must be greater than 0, got %d", p.ID))
	}
	if strings.TrimSpace(p.Name) == "" {
		return etlerrors.NewValidationError("name", "must not be empty")
	}
	if n := len(p.Types); n < 1 || n > 2 {
		return etlerrors.NewValidationError("types", fmt.Sprintf("must contain 1 or 2 entries, got %d", n))
	}
	for i, t := range p.Types {
		if strings.TrimSpace(t) == "" {
			return etlerrors.NewValidationError(fmt.Sprintf("types[%d]", i), "must not be empty")
		}
	}
	if p.Weight <= 0 {
		return etlerrors.NewValidationError("weight", fmt.Sprintf("must be greater than 0, got %v", p.Weight))
	}
	if p.Height <= 0 {
		return etlerrors.NewValidationError("height", fmt.Sprintf("must be greater than 0, got %v", p.Height))
	}
	if strings.TrimSpace(p.Sprite) == "" {
		return etlerrors.NewValidationError("sprite", "must not be empty")
	}
	return nil
}

// PokemonRow is the storage form of a Pokemon. The destination has no list
// type, so Types holds the names joined with TypesSeparator.
type PokemonRow struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Types  string  `json:"types"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Sprite string  `json:"sprite"`
}

var pokemonColumns = []Column{
	{Name: "id", Kind: KindInt, PrimaryKey: true},
	{Name: "name", Kind: KindString, Size: 255},
	{Name: "types", Kind: KindString, Size: 255},
	{Name: "weight", Kind: KindFloat},
	{Name: "height", Kind: KindFloat},
	{Name: "sprite", Kind: KindString, Size: 255},
}

func (PokemonRow) TableName() string { return "pokemon" }

func (PokemonRow) Columns() []Column {
	cols := make([]Column, len(pokemonColumns))
	copy(cols, pokemonColumns)
	return cols
}

func (r PokemonRow) Values() []any {
	return []any{r.ID, r.Name, r.Types, r.Weight, r.Height, r.Sprite}
}

func (r PokemonRow) String() string {
	return fmt.Sprintf("Pokemon(%s)", r.Name)
}

// JoinTypes collapses an ordered list of type names into a single string.
func JoinTypes(types []string) string {
	return strings.Join(types, TypesSeparator)
}

// PokemonToRow maps every validated field 1:1 onto the storage form.
func PokemonToRow(p Pokemon) PokemonRow {
	return PokemonRow{
		ID:     p.ID,
		Name:   p.Name,
		Types:  JoinTypes(p.Types),
		Weight: p.Weight,
		Height: p.Height,
		Sprite: p.Sprite,
	}
}
