// Package intent turns a raw utterance into a category and a bag of
// extracted argument slots. Classification is deliberately dumb: an
// ordered table of trigger phrases, first category with any substring
// hit wins. The table order is the disambiguation rule, so it is data,
// not code.
package intent

import "strings"

type Category string

const (
	CategoryMusic         Category = "music"
	CategorySystem        Category = "system"
	CategoryShortcuts     Category = "shortcuts"
	CategoryCamera        Category = "camera"
	CategoryFiles         Category = "files"
	CategorySearch        Category = "search"
	CategoryVoice         Category = "voice"
	CategoryScreenshot    Category = "screenshot"
	CategoryWakeWord      Category = "wake_word"
	CategoryResearch      Category = "research"
	CategoryComparePrice  Category = "compare_price"
	CategoryCompareFlight Category = "compare_flight"
	CategoryTyping        Category = "typing"
	CategoryConversation  Category = "conversation"
	CategoryComplex       Category = "complex"
)

// Normalize lowercases and trims an utterance. Every component past the
// microphone works on the normalized form.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

var stopKeywords = []string{
	"stop speaking", "shut up", "be quiet",
	"stop", "halt", "quiet", "silence",
}

// IsStop reports whether the normalized utterance contains a stop
// keyword. The gate short-circuits all further routing.
func IsStop(text string) bool {
	for _, kw := range stopKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Rule binds one category to its trigger phrases.
type Rule struct {
	Category Category
	Triggers []string
}

// DefaultRules is the priority table. Top-to-bottom evaluation: an
// utterance containing triggers from several rows is classified by the
// earliest row, regardless of where the trigger sits in the text.
var DefaultRules = []Rule{
	{CategoryWakeWord, []string{"change wake word to", "set wake word to"}},
	{CategoryVoice, []string{"change voice to"}},
	{CategoryScreenshot, []string{"take screenshot", "capture screen", "screenshot"}},
	{CategoryCamera, []string{"what do you see", "take photo", "take picture", "capture image"}},
	{CategoryCompareFlight, []string{"compare flights", "compare flight", "search flights", "search for flights", "book flight", "find flights", "flight from", "flights from"}},
	{CategoryComparePrice, []string{"compare prices", "compare price", "price check"}},
	{CategoryResearch, []string{"research", "study", "investigate"}},
	{CategoryTyping, []string{"type ", "write "}},
	{CategoryMusic, []string{"play", "pause", "stop music", "pause music", "next track", "next song", "previous track", "previous song"}},
	{CategorySystem, []string{"volume", "open ", "launch ", "start ", "close ", "exit ", "quit "}},
	{CategoryShortcuts, []string{"copy", "paste", "cut", "select all", "save", "undo"}},
	{CategoryFiles, []string{"open files", "search files", "find file", "file explorer"}},
	{CategorySearch, []string{"search", "look up", "find"}},
}

// Classifier evaluates an ordered rule table. The zero value is not
// usable; construct with NewClassifier.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the first matching category, or
// CategoryConversation when nothing matches. It never fails.
func (c *Classifier) Classify(text string) Category {
	for _, r := range c.rules {
		for _, trig := range r.Triggers {
			if strings.Contains(text, trig) {
				return r.Category
			}
		}
	}
	return CategoryConversation
}
