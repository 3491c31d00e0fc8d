package docsearch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentPatchUnmarshalDistinguishesAbsentFromNull(t *testing.T) {
	assert := assert.New(t)

	var untouched DocumentPatch
	if err := json.Unmarshal([]byte(`{"title": "New Title"}`), &untouched); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.NotNil(untouched.Title)
	assert.Equal("New Title", *untouched.Title)
	assert.Nil(untouched.Content)
	assert.False(untouched.Category.Present, "absent category should be untouched")

	var cleared DocumentPatch
	if err := json.Unmarshal([]byte(`{"category": null}`), &cleared); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.True(cleared.Category.Present)
	assert.False(cleared.Category.Valid, "null category should clear")

	var set DocumentPatch
	if err := json.Unmarshal([]byte(`{"category": "science"}`), &set); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.True(set.Category.Present)
	assert.True(set.Category.Valid)
	assert.Equal("science", set.Category.Value)
}

func TestDocumentPatchMarshalRoundTrip(t *testing.T) {
	assert := assert.New(t)

	title := "Title"
	patch := DocumentPatch{
		Title:    &title,
		Category: OptionalString{Present: true},
	}

	data, err := json.Marshal(patch)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	var decoded DocumentPatch
	if err := json.Unmarshal(data, &decoded); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(patch.Title, decoded.Title)
	assert.Nil(decoded.Content, "untouched content must not appear on the wire")
	assert.True(decoded.Category.Present)
	assert.False(decoded.Category.Valid)

	var untouched DocumentPatch
	data, err = json.Marshal(untouched)
	if err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal("{}", string(data), "untouched patch must not emit any key")
}

func TestDocumentPatchApply(t *testing.T) {
	assert := assert.New(t)

	category := "science"
	doc := Document{
		ID:       42,
		Title:    "Old Title",
		Content:  "Old content.",
		Category: &category,
	}

	content := "New content."
	merged := DocumentPatch{Content: &content}.Apply(doc)

	assert.Equal("Old Title", merged.Title)
	assert.Equal("New content.", merged.Content)
	assert.Equal(&category, merged.Category)

	cleared := DocumentPatch{
		Category: OptionalString{Present: true},
	}.Apply(doc)

	assert.Equal("Old Title", cleared.Title)
	assert.Equal("Old content.", cleared.Content)
	assert.Nil(cleared.Category)
}

func TestDocumentEmbeddingText(t *testing.T) {
	assert := assert.New(t)

	doc := Document{
		Title:   "Pasta",
		Content: "How to cook pasta.",
	}

	assert.Equal("Pasta How to cook pasta.", doc.EmbeddingText())
}
