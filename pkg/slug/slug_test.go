// Copyright (c) 2026 FarmConnect. All rights reserved.

package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	cases := map[string]string{
		"Heirloom Tomatoes":       "heirloom-tomatoes",
		"Crème Fraîche":           "creme-fraiche",
		"  padded   name  ":       "padded-name",
		"100% Organic! Honey":     "100-organic-honey",
		"--already--hyphenated--": "already-hyphenated",
		"":                        "",
	}

	for input, want := range cases {
		assert.Equal(t, want, From(input), "input %q", input)
	}
}
