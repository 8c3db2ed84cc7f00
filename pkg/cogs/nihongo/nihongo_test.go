package nihongo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWord = `{
	"slug": "猫",
	"is_common": true,
	"jlpt": ["jlpt-n5"],
	"japanese": [{"word": "猫", "reading": "ねこ"}],
	"senses": [
		{"english_definitions": ["cat"], "parts_of_speech": ["Noun"]},
		{"english_definitions": ["shamisen"], "parts_of_speech": ["Noun"]}
	]
}`

func TestWordEmbed(t *testing.T) {
	var word Word
	require.NoError(t, json.Unmarshal([]byte(sampleWord), &word))

	embed := wordEmbed(word)
	assert.Equal(t, "猫", embed.Title)
	assert.Equal(t, "ねこ", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "1. (Noun)", embed.Fields[0].Name)
	assert.Equal(t, "cat", embed.Fields[0].Value)
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, "common word")
	assert.Contains(t, embed.Footer.Text, "jlpt-n5")
}

const sampleKanjiPage = `<html><body>
<div class="kanji-details__main-meanings">cat</div>
<div class="kanji-details__stroke_count"><strong>11</strong> strokes</div>
<div class="grade"><strong>grade 8</strong></div>
<div class="frequency"><strong>1702</strong> of 2500 most used</div>
</body></html>`

func TestParseKanjiPage(t *testing.T) {
	details, err := ParseKanjiPage(strings.NewReader(sampleKanjiPage))
	require.NoError(t, err)
	require.NotNil(t, details)

	assert.Equal(t, "11", details.Strokes)
	assert.Equal(t, "grade 8", details.Grade)
	assert.Equal(t, "1702", details.Frequency)
	assert.Equal(t, "cat", details.Meanings)
}

func TestParseKanjiPageEmpty(t *testing.T) {
	details, err := ParseKanjiPage(strings.NewReader("<html><body><p>no such kanji</p></body></html>"))
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestFirstRune(t *testing.T) {
	assert.Equal(t, "猫", firstRune("猫です"))
	assert.Equal(t, "a", firstRune("abc"))
	assert.Equal(t, "", firstRune(""))
}
