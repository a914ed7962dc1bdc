package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeckAdd(t *testing.T) {
	var d Deck
	d.Add(Main, "55144522", 1)
	d.Add(Extra, "83764719", 2)
	d.Add(Side, "26202165", 3)
	d.Add(Main, "12580477", 0)

	assert.Equal(t, []string{"55144522"}, d.Main)
	assert.Equal(t, []string{"83764719", "83764719"}, d.Extra)
	assert.Equal(t, []string{"26202165", "26202165", "26202165"}, d.Side)
	assert.Equal(t, 6, d.Total())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "main", Main.String())
	assert.Equal(t, "extra", Extra.String())
	assert.Equal(t, "side", Side.String())
	assert.Equal(t, "section(7)", Section(7).String())

	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "transport_error", TransportError.String())
}
