package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestLookup(t *testing.T) {
	m := decode(t, `{"sprites": {"front_default": "a.png", "other": null}, "name": "x"}`)

	v, ok := Lookup(m, "sprites.front_default")
	assert.True(t, ok)
	assert.Equal(t, "a.png", v)

	v, ok = Lookup(m, "sprites.other")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = Lookup(m, "sprites.back_default")
	assert.False(t, ok)

	_, ok = Lookup(m, "name.first")
	assert.False(t, ok)
}

func TestGetters(t *testing.T) {
	m := decode(t, `{"id": 25, "weight": 60, "ratio": 0.5, "name": "pikachu", "types": [1], "sprites": {}}`)

	id, err := GetInt(m, "id")
	require.NoError(t, err)
	assert.Equal(t, 25, id)

	w, err := GetFloat(m, "weight")
	require.NoError(t, err)
	assert.Equal(t, 60.0, w)

	name, err := GetString(m, "name")
	require.NoError(t, err)
	assert.Equal(t, "pikachu", name)

	list, err := GetSlice(m, "types")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	obj, err := GetMap(m, "sprites")
	require.NoError(t, err)
	assert.Empty(t, obj)
}

func TestGetters_Errors(t *testing.T) {
	m := decode(t, `{"id": 1.5, "name": 7, "sprites": {"front_default": null}, "types": {}}`)

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"fractional int", func() error { _, err := GetInt(m, "id"); return err }, "id"},
		{"missing float", func() error { _, err := GetFloat(m, "weight"); return err }, "weight"},
		{"wrong string type", func() error { _, err := GetString(m, "name"); return err }, "name"},
		{"null string", func() error { _, err := GetString(m, "sprites.front_default"); return err }, "sprites.front_default"},
		{"object as list", func() error { _, err := GetSlice(m, "types"); return err }, "types"},
		{"string as object", func() error { _, err := GetMap(m, "name"); return err }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)

			var ve *etlerrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Field)
		})
	}
}

func TestConvertToInt(t *testing.T) {
	n, err := ConvertToInt(json.Number("151"))
	require.NoError(t, err)
	assert.Equal(t, 151, n)

	n, err = ConvertToInt(json.Number("1.0"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ConvertToInt(json.Number("6.9e1"))
	require.NoError(t, err)
	assert.Equal(t, 69, n)

	_, err = ConvertToInt(json.Number("1.5"))
	assert.Error(t, err)

	_, err = ConvertToInt("12")
	assert.Error(t, err)
}

func TestConvertToFloat(t *testing.T) {
	f, err := ConvertToFloat(json.Number("69"))
	require.NoError(t, err)
	assert.Equal(t, 69.0, f)

	f, err = ConvertToFloat(7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)

	_, err = ConvertToFloat(true)
	assert.Error(t, err)
}
