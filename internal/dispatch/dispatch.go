// Package dispatch maps a classified utterance onto exactly one
// collaborator call and turns whatever happens into a user-facing
// sentence. This is the error boundary: collaborator failures are
// logged here and reported as text, and nothing propagates to the turn
// loop. One extension failing must never take the assistant down.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"vani/internal/dialogue"
	"vani/internal/history"
	"vani/internal/intent"
	"vani/internal/llm"
	"vani/internal/memory"
	"vani/internal/shopping"
)

// Services bundles every collaborator the dispatcher can reach. Nil
// fields degrade to an "unavailable" reply for their categories.
type Services struct {
	Music    Music
	Browser  Browser
	System   System
	Apps     Apps
	Typist   Typist
	Files    FileSearcher
	Camera   Camera
	Vision   Vision
	Voice    VoiceChanger
	Wake     WakeChanger
	Prices   shopping.PriceSource
	Provider llm.Provider
	Shell    Shell

	Flights  *dialogue.Manager
	Fallback Fallback
	History  *history.Log
	Memory   *memory.Store

	// Stop halts ongoing speech and playback. Invoked by the stop
	// gate before any classification happens.
	Stop func()
}

type Dispatcher struct {
	svc        Services
	classifier *intent.Classifier
	genCfg     llm.GenerationConfig
}

func New(svc Services, classifier *intent.Classifier) *Dispatcher {
	if classifier == nil {
		classifier = intent.NewClassifier(nil)
	}
	if svc.Flights == nil {
		svc.Flights = dialogue.NewManager(0)
	}
	return &Dispatcher{svc: svc, classifier: classifier, genCfg: llm.DefaultConfig()}
}

// FlightSessionActive reports whether a slot-filling dialogue is in
// progress. Callers use it to keep dialogue answers out of compound
// splitting.
func (d *Dispatcher) FlightSessionActive() bool {
	return d.svc.Flights.Active()
}

// Handle processes one normalized utterance end to end and returns the
// reply to speak. It never returns an error and never panics outward.
func (d *Dispatcher) Handle(ctx context.Context, text string) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("dispatch panic", "utterance", text, "panic", rec)
			reply = "Something went wrong handling that."
		}
	}()

	text = intent.Normalize(text)
	if text == "" {
		return "No command received"
	}

	if d.svc.History != nil {
		if err := d.svc.History.Append(text); err != nil {
			slog.Warn("history append failed", "err", err)
		}
	}

	// Stop gate: short-circuits everything, including an active
	// dialogue session.
	if intent.IsStop(text) {
		if d.svc.Stop != nil {
			d.svc.Stop()
		}
		return "Stopped."
	}

	// An in-flight slot-filling session consumes the turn whole.
	if d.svc.Flights.Active() {
		if answer, ok := d.svc.Flights.Feed(text); ok {
			return d.finishFlightTurn(ctx, answer)
		}
	}

	if strings.Contains(text, "what can you do") {
		return capabilities
	}
	if canned, ok := cannedReply(text); ok {
		return canned
	}
	if isDocumentRequest(text) {
		return d.writeDocument(ctx, text)
	}
	if reply, ok := d.stockPrices(ctx, text); ok {
		return reply
	}
	if reply, ok := d.shellCommand(ctx, text); ok {
		return reply
	}
	if reply, ok := d.openFileResult(text); ok {
		return reply
	}

	cat := d.classifier.Classify(text)
	slots := intent.ExtractSlots(cat, text)

	if d.svc.Memory != nil {
		if err := d.svc.Memory.Observe(text, string(cat)); err != nil {
			slog.Warn("memory save failed", "err", err)
		}
	}

	switch cat {
	case intent.CategoryMusic:
		return d.music(ctx, text, slots)
	case intent.CategorySystem:
		return d.system(text, slots)
	case intent.CategoryShortcuts:
		return d.shortcut(text)
	case intent.CategoryCamera:
		return d.camera(ctx)
	case intent.CategoryFiles:
		return d.files(text, slots)
	case intent.CategorySearch:
		return d.search(ctx, slots)
	case intent.CategoryVoice:
		return d.voice(slots)
	case intent.CategoryScreenshot:
		return d.screenshot(ctx)
	case intent.CategoryWakeWord:
		return d.wakeWord(slots)
	case intent.CategoryResearch:
		return d.research(ctx, slots)
	case intent.CategoryComparePrice:
		return d.comparePrices(ctx, slots)
	case intent.CategoryCompareFlight:
		return d.startFlightSearch(text, slots)
	case intent.CategoryTyping:
		return d.typing(slots)
	default:
		return d.converse(ctx, text)
	}
}

func (d *Dispatcher) finishFlightTurn(ctx context.Context, answer string) string {
	if !strings.HasPrefix(answer, "https://") {
		return answer
	}
	if d.svc.Browser == nil {
		return "Here is your flight search: " + answer
	}
	if err := d.svc.Browser.OpenURL(ctx, answer); err != nil {
		slog.Error("open flight url failed", "err", err)
		return "I built your flight search but couldn't open the browser: " + answer
	}
	return "Opening Skyscanner with your flight search..."
}

func (d *Dispatcher) music(ctx context.Context, text string, slots intent.Slots) string {
	control := slots.Get("control")
	if control != "play" && d.svc.Music == nil {
		return "Music control isn't available right now."
	}
	switch control {
	case "pause":
		return d.report(d.svc.Music.Pause(ctx), "Paused.", "pause music")
	case "next":
		return d.report(d.svc.Music.Next(ctx), "Skipped to the next track.", "skip track")
	case "previous":
		return d.report(d.svc.Music.Previous(ctx), "Back to the previous track.", "previous track")
	case "play":
		song := slots.Get("song")
		if song == "" {
			return "Please specify what to play"
		}
		if slots.Get("platform") == "youtube" {
			if d.svc.Browser == nil {
				return "YouTube playback isn't available right now."
			}
			return d.report(d.svc.Browser.PlayYouTube(ctx, song), fmt.Sprintf("Playing %s on YouTube.", song), "play on youtube")
		}
		if d.svc.Music == nil {
			return "Music control isn't available right now."
		}
		return d.report(d.svc.Music.Play(ctx, song), fmt.Sprintf("Playing %s on Spotify.", song), "play music")
	}
	return "Please specify a music command"
}

func (d *Dispatcher) system(text string, slots intent.Slots) string {
	if dir := slots.Get("direction"); dir != "" {
		if d.svc.System == nil {
			return "Volume control isn't available right now."
		}
		if dir == "up" {
			return d.report(d.svc.System.VolumeUp(), "Volume increased.", "volume up")
		}
		return d.report(d.svc.System.VolumeDown(), "Volume decreased.", "volume down")
	}

	app := slots.Get("app")
	if app == "" {
		return "Please specify what to open or close"
	}
	if d.svc.Apps == nil {
		return "Application control isn't available right now."
	}
	switch intent.AppAction(text) {
	case "open":
		return d.report(d.svc.Apps.Open(app), fmt.Sprintf("Opened %s.", app), "open application")
	case "close":
		return d.report(d.svc.Apps.Close(app), fmt.Sprintf("Closed %s.", app), "close application")
	}
	return "Please specify what to open or close"
}

var shortcutNames = []string{"select all", "copy", "paste", "cut", "save", "undo"}

func (d *Dispatcher) shortcut(text string) string {
	if d.svc.Typist == nil {
		return "Keyboard shortcuts aren't available right now."
	}
	for _, name := range shortcutNames {
		if strings.Contains(text, name) {
			key := strings.ReplaceAll(name, " ", "_")
			return d.report(d.svc.Typist.Shortcut(key), fmt.Sprintf("Done: %s.", name), "keyboard shortcut")
		}
	}
	return "I don't know that shortcut."
}

func (d *Dispatcher) camera(ctx context.Context) string {
	if d.svc.Camera == nil {
		return "The camera isn't available right now."
	}
	path, err := d.svc.Camera.Capture(ctx)
	if err != nil {
		slog.Error("camera capture failed", "err", err)
		return "I couldn't take a photo to analyze."
	}
	if d.svc.Vision == nil {
		return "Picture taken and saved."
	}
	desc, err := d.svc.Vision.Describe(ctx, path,
		"Describe what you see in this image in 2-3 sentences. Focus on the main subjects, colors, and important details.")
	if err != nil {
		slog.Error("image analysis failed", "err", err)
		return "I took a photo but had trouble analyzing it."
	}
	return "Here's what I see: " + desc
}

func (d *Dispatcher) files(text string, slots intent.Slots) string {
	if d.svc.Files == nil {
		return "File search isn't available right now."
	}
	if strings.Contains(text, "open files") || strings.Contains(text, "file explorer") {
		return d.report(d.svc.Files.OpenExplorer(), "File explorer opened. Tell me if you'd like to search for something.", "open file explorer")
	}
	query := slots.Get("query")
	if query == "" {
		return "What would you like to search for?"
	}
	matches, err := d.svc.Files.Search(query)
	if err != nil {
		slog.Error("file search failed", "query", query, "err", err)
		return "I couldn't search your files right now."
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No files matching %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d files:\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	b.WriteString("Say open file and a number to open one.")
	return b.String()
}

// fileNumberRe matches the follow-up to a file search, so "open
// file 2" reaches the remembered results instead of the app launcher.
var fileNumberRe = regexp.MustCompile(`^open (?:file|number|result) (?:number )?(\d+)$`)

func (d *Dispatcher) openFileResult(text string) (string, bool) {
	m := fileNumberRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if d.svc.Files == nil {
		return "File search isn't available right now.", true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	name, err := d.svc.Files.OpenResult(n)
	if err != nil {
		slog.Error("open search result failed", "number", n, "err", err)
		return "I don't have a search result with that number. Search for a file first.", true
	}
	return "Opened " + name + ".", true
}

func (d *Dispatcher) search(ctx context.Context, slots intent.Slots) string {
	query := slots.Get("query")
	if query == "" {
		return "Please specify what to search for"
	}
	if d.svc.Browser == nil {
		return "Web search isn't available right now."
	}
	platform := slots.Get("platform")
	return d.report(d.svc.Browser.Search(ctx, platform, query),
		fmt.Sprintf("Searched for %s on %s.", query, platform), "web search")
}

func (d *Dispatcher) voice(slots intent.Slots) string {
	name := slots.Get("voice")
	if name == "" {
		return "Which voice would you like?"
	}
	if d.svc.Voice == nil {
		return "Voice switching isn't available right now."
	}
	return d.report(d.svc.Voice.SetVoice(name), fmt.Sprintf("Changed voice to %s.", name), "change voice")
}

func (d *Dispatcher) screenshot(ctx context.Context) string {
	if d.svc.System == nil {
		return "Screenshots aren't available right now."
	}
	path, err := d.svc.System.TakeScreenshot()
	if err != nil {
		slog.Error("screenshot failed", "err", err)
		return "Failed to take a screenshot."
	}
	if d.svc.Vision == nil {
		return "Screenshot taken and saved."
	}
	desc, err := d.svc.Vision.Describe(ctx, path,
		"Describe what is on this screen, focusing on the foreground window and any notable content.")
	if err != nil {
		slog.Error("screenshot analysis failed", "err", err)
		return "Screenshot taken, but I couldn't analyze it."
	}
	return "Screenshot analyzed. Here's what I see: " + desc
}

func (d *Dispatcher) wakeWord(slots intent.Slots) string {
	word := slots.Get("word")
	if word == "" {
		return "What should the new wake word be?"
	}
	if d.svc.Wake == nil {
		return "Wake word changes aren't available right now."
	}
	return d.report(d.svc.Wake.SetKeyword(word), fmt.Sprintf("Wake word changed to %s.", word), "change wake word")
}

func (d *Dispatcher) comparePrices(ctx context.Context, slots intent.Slots) string {
	product := slots.Get("product")
	if product == "" {
		return "Which product should I compare prices for?"
	}
	if d.svc.Prices == nil {
		return "Price comparison isn't available right now."
	}
	results := shopping.Compare(ctx, d.svc.Prices, product)
	report := shopping.Report(product, results)
	d.typeReport(report)
	return report
}

func (d *Dispatcher) startFlightSearch(text string, slots intent.Slots) string {
	return d.svc.Flights.Start(slots.Get("departure"), slots.Get("arrival"))
}

func (d *Dispatcher) typing(slots intent.Slots) string {
	content := slots.Get("content")
	if content == "" {
		return "Please specify what to type"
	}
	if d.svc.Typist == nil {
		return "Typing isn't available right now."
	}
	return d.report(d.svc.Typist.Type(content), "Typed your text.", "type text")
}

func (d *Dispatcher) converse(ctx context.Context, text string) string {
	if d.svc.Fallback == nil {
		return "I'm not sure how to help with that"
	}
	return d.svc.Fallback.Respond(ctx, text)
}

// report collapses the collaborator error pattern: log the failure,
// return either the success sentence or a textual apology.
func (d *Dispatcher) report(err error, success, op string) string {
	if err != nil {
		slog.Error("collaborator call failed", "op", op, "err", err)
		return fmt.Sprintf("Sorry, I couldn't %s right now.", op)
	}
	return success
}
