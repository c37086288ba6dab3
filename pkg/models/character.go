package models

import (
	"strings"

	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
)

// Character is a World of Warcraft character profile. It has no storage
// form: it is produced by a run but never loaded.
type Character struct {
	Name           string `json:"name"`
	Race           string `json:"race"`
	Class          string `json:"class"`
	ActiveSpecName string `json:"active_spec_name"`
	Gender         string `json:"gender"`
	Faction        string `json:"faction"`
}

func (c Character) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"race", c.Race},
		{"class", c.Class},
		{"active_spec_name", c.ActiveSpecName},
		{"gender", c.Gender},
		{"faction", c.Faction},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return etlerrors.NewValidationError(f.name, "must not be empty")
		}
	}
	return nil
}
