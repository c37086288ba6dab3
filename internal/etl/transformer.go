package etl

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/BartekS5/uncoupledetl/pkg/models"
	"github.com/BartekS5/uncoupledetl/pkg/utils"
)

// weightHeightScale converts PokeAPI hectograms and decimetres to
// kilograms and metres.
const weightHeightScale = 10

var (
	_ Transformer[[]models.PokemonRow] = (*PokemonTransformer)(nil)
	_ Transformer[models.Character]    = (*CharacterTransformer)(nil)
)

// PokemonTransformer validates a batch of PokeAPI payloads and maps them to
// storage rows, preserving input order.
type PokemonTransformer struct {
	Data []RawRecord
}

func NewPokemonTransformer(data []RawRecord) *PokemonTransformer {
	return &PokemonTransformer{Data: data}
}

func (t *PokemonTransformer) Transform() ([]models.PokemonRow, error) {
	pokemon, err := parsePokemonBatch(t.Data)
	if err != nil {
		return nil, err
	}
	if err := validateUniqueIDs(pokemon); err != nil {
		return nil, err
	}

	rows := make([]models.PokemonRow, 0, len(pokemon))
	for _, p := range pokemon {
		rows = append(rows, models.PokemonToRow(p))
	}
	return rows, nil
}

func parsePokemonBatch(data []RawRecord) ([]models.Pokemon, error) {
	out := make([]models.Pokemon, 0, len(data))
	for i, raw := range data {
		p, err := parsePokemon(raw)
		if err != nil {
			return nil, pkgerrors.WithMessagef(err, "pokemon record %d", i)
		}
		out = append(out, p)
	}
	return out, nil
}

func parsePokemon(raw RawRecord) (models.Pokemon, error) {
	var p models.Pokemon
	var err error

	if p.ID, err = utils.GetInt(raw, "id"); err != nil {
		return p, err
	}
	if p.Name, err = utils.GetString(raw, "name"); err != nil {
		return p, err
	}
	if p.Types, err = flattenTypes(raw); err != nil {
		return p, err
	}
	if p.Weight, err = utils.GetFloat(raw, "weight"); err != nil {
		return p, err
	}
	if p.Height, err = utils.GetFloat(raw, "height"); err != nil {
		return p, err
	}
	if p.Sprite, err = utils.GetString(raw, "sprites.front_default"); err != nil {
		return p, err
	}
	p.Weight /= weightHeightScale
	p.Height /= weightHeightScale

	return p, p.Validate()
}

// flattenTypes turns [{"type": {"name": "grass"}}, ...] into ["grass", ...].
func flattenTypes(raw RawRecord) ([]string, error) {
	slots, err := utils.GetSlice(raw, "types")
	if err != nil {
		return nil, err
	}
	types := make([]string, 0, len(slots))
	for i, slot := range slots {
		obj, _ := slot.(map[string]any)
		name, err := utils.GetString(obj, "type.name")
		if err != nil {
			return nil, pkgerrors.WithMessagef(err, "types[%d]", i)
		}
		types = append(types, name)
	}
	return types, nil
}

// CharacterTransformer validates a single character profile payload.
type CharacterTransformer struct {
	Data RawRecord
}

func NewCharacterTransformer(data RawRecord) *CharacterTransformer {
	return &CharacterTransformer{Data: data}
}

func (t *CharacterTransformer) Transform() (models.Character, error) {
	var c models.Character
	fields := []struct {
		key string
		dst *string
	}{
		{"name", &c.Name},
		{"race", &c.Race},
		{"class", &c.Class},
		{"active_spec_name", &c.ActiveSpecName},
		{"gender", &c.Gender},
		{"faction", &c.Faction},
	}
	for _, f := range fields {
		v, err := utils.GetString(t.Data, f.key)
		if err != nil {
			return models.Character{}, pkgerrors.WithMessage(err, "character")
		}
		*f.dst = v
	}
	if err := c.Validate(); err != nil {
		return models.Character{}, pkgerrors.WithMessage(err, "character")
	}
	return c, nil
}
