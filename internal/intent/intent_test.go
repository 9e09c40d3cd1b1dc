package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "play music", Normalize("  Play MUSIC  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestIsStop(t *testing.T) {
	for _, phrase := range []string{"stop", "please stop speaking", "shut up", "be quiet now", "halt"} {
		assert.True(t, IsStop(Normalize(phrase)), phrase)
	}
	assert.False(t, IsStop("play some music"))
}

func TestClassifyCategories(t *testing.T) {
	c := NewClassifier(nil)
	cases := map[string]Category{
		"play despacito on youtube":       CategoryMusic,
		"pause music":                     CategoryMusic,
		"volume up":                       CategorySystem,
		"open calculator":                 CategorySystem,
		"close chrome":                    CategorySystem,
		"copy that":                       CategoryShortcuts,
		"what do you see":                 CategoryCamera,
		"search files for report":         CategoryFiles,
		"search for golang tutorials":     CategorySearch,
		"change voice to hinglish":        CategoryVoice,
		"take screenshot":                 CategoryScreenshot,
		"change wake word to computer":    CategoryWakeWord,
		"research quantum computing":      CategoryResearch,
		"compare prices for macbook air":  CategoryComparePrice,
		"compare flights from yto to del": CategoryCompareFlight,
		"type hello world":                CategoryTyping,
		"how are you today":               CategoryConversation,
	}
	for text, want := range cases {
		assert.Equal(t, want, c.Classify(text), text)
	}
}

// An utterance hitting several rows is classified by the earliest row,
// no matter where its trigger sits in the text.
func TestClassifyPriorityOrder(t *testing.T) {
	c := NewClassifier(nil)

	assert.Equal(t, CategoryScreenshot, c.Classify("play music take screenshot"))
	assert.Equal(t, CategoryCompareFlight, c.Classify("search flights from yto"))
	assert.Equal(t, CategoryResearch, c.Classify("research how to play chess"))
	assert.Equal(t, CategoryMusic, c.Classify("play the file search song"))
}

func TestExtractMusicSlots(t *testing.T) {
	slots := ExtractSlots(CategoryMusic, "play shape of you on youtube")
	assert.Equal(t, "shape of you", slots.Get("song"))
	assert.Equal(t, "youtube", slots.Get("platform"))
	assert.Equal(t, "play", slots.Get("control"))

	slots = ExtractSlots(CategoryMusic, "pause music")
	assert.Equal(t, "pause", slots.Get("control"))

	slots = ExtractSlots(CategoryMusic, "next song")
	assert.Equal(t, "next", slots.Get("control"))
}

func TestExtractSearchSlots(t *testing.T) {
	slots := ExtractSlots(CategorySearch, "search for cute cats on youtube")
	assert.Equal(t, "cute cats", slots.Get("query"))
	assert.Equal(t, "youtube", slots.Get("platform"))

	slots = ExtractSlots(CategorySearch, "look up weather in toronto")
	assert.Equal(t, "weather in toronto", slots.Get("query"))
	assert.Equal(t, "google", slots.Get("platform"))
}

func TestExtractFlightCities(t *testing.T) {
	slots := ExtractSlots(CategoryCompareFlight, "compare flights from yto to del tomorrow")
	assert.Equal(t, "yto", slots.Get("departure"))
	assert.Equal(t, "del", slots.Get("arrival"))

	slots = ExtractSlots(CategoryCompareFlight, "compare flights")
	assert.Equal(t, "", slots.Get("departure"))
	assert.Equal(t, "", slots.Get("arrival"))
}

func TestExtractSystemSlots(t *testing.T) {
	slots := ExtractSlots(CategorySystem, "turn the volume up")
	assert.Equal(t, "up", slots.Get("direction"))

	slots = ExtractSlots(CategorySystem, "open calculator")
	assert.Equal(t, "calculator", slots.Get("app"))
	assert.Equal(t, "open", AppAction("open calculator"))
	assert.Equal(t, "close", AppAction("close chrome"))
}

func TestExtractTypingAndResearch(t *testing.T) {
	assert.Equal(t, "hello world", ExtractSlots(CategoryTyping, "type hello world").Get("content"))
	assert.Equal(t, "black holes", ExtractSlots(CategoryResearch, "research black holes").Get("topic"))
	assert.Equal(t, "macbook air", ExtractSlots(CategoryComparePrice, "compare prices for macbook air").Get("product"))
}
