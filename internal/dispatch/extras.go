package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const capabilities = `I'm your personal assistant! Here's what I can do:

Music control:
- "Play [song name]" to play on Spotify, or "Play [song] on YouTube"
- "Pause", "Next track", "Previous track"
- "Volume up" or "Volume down"

Search and browse:
- "Search [query] on Google or YouTube"
- "Open" or "Close" an application
- "Research [topic]" for a written report

Camera:
- "What do you see" to analyze the view
- "Take photo", "Take screenshot"

Travel and shopping:
- "Compare flights from [city] to [city]"
- "Compare prices for [product]"

Just tell me what you need!`

func cannedReply(text string) (string, bool) {
	switch {
	case containsAny(text, "hello", "hey there") || text == "hi" || strings.HasPrefix(text, "hi "):
		return "Hello! How can I help you?", true
	case strings.Contains(text, "joke"):
		return "Why don't scientists trust atoms? Because they make up everything!", true
	case strings.Contains(text, "thank"):
		return "You're welcome!", true
	}
	return "", false
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// isDocumentRequest matches "write me an essay on X" style commands:
// a writing verb plus a document noun.
func isDocumentRequest(text string) bool {
	return containsAny(text, "write me", "write an", "create", "make") &&
		containsAny(text, "assignment", "report", "essay")
}

// writeDocument generates long-form content and types it into the word
// processor: open the app, new document, then the text in paragraph
// chunks at a natural pace.
func (d *Dispatcher) writeDocument(ctx context.Context, text string) string {
	topic := text
	for _, remove := range []string{"write me", "write an", "create", "make", "assignment", "report", "essay", "about", " on ", " an ", " a "} {
		topic = strings.ReplaceAll(topic, remove, " ")
	}
	topic = strings.Join(strings.Fields(topic), " ")
	if topic == "" {
		return "What should the essay be about?"
	}
	if d.svc.Provider == nil {
		return "Document writing isn't available right now."
	}

	prompt := fmt.Sprintf("Write a comprehensive essay on %s. Include a clear introduction, well-structured body paragraphs, supporting evidence and examples, and a strong conclusion.", topic)
	cfg := d.genCfg
	cfg.StopSequences = nil
	content, err := d.svc.Provider.Generate(ctx, prompt, cfg)
	if err != nil {
		slog.Error("essay generation failed", "topic", topic, "err", err)
		return "Error creating essay"
	}

	if err := d.typeIntoDocument("Essay on "+strings.Title(topic), content); err != nil {
		slog.Error("essay typing failed", "err", err)
		return "Error creating essay"
	}
	return "Essay has been written in the document!"
}

// research produces a structured report and types it into the word
// processor, same mechanics as writeDocument but a longer prompt.
func (d *Dispatcher) research(ctx context.Context, slots map[string]string) string {
	topic := slots["topic"]
	if topic == "" {
		return "What topic should I research?"
	}
	if d.svc.Provider == nil {
		return "Research isn't available right now."
	}

	prompt := fmt.Sprintf(
		"Provide a comprehensive research report on: %s. Structure it with a title, executive summary, introduction, key findings, detailed analysis, recommendations and conclusion. Around 1000-1500 words with relevant statistics where applicable.",
		topic)
	cfg := d.genCfg
	cfg.StopSequences = nil
	content, err := d.svc.Provider.Generate(ctx, prompt, cfg)
	if err != nil {
		slog.Error("research generation failed", "topic", topic, "err", err)
		return "Could not generate research content"
	}

	header := fmt.Sprintf("Research Report\nTopic: %s\nDate: %s", topic, time.Now().Format("2006-01-02 15:04"))
	if err := d.typeIntoDocument(header, content); err != nil {
		slog.Error("research typing failed", "err", err)
		return "I researched it but couldn't type the report: " + firstSentence(content)
	}
	return fmt.Sprintf("Completed comprehensive research on %q", topic)
}

// typeIntoDocument opens the word processor and types header plus
// content, paragraph by paragraph.
func (d *Dispatcher) typeIntoDocument(header, content string) error {
	if d.svc.Apps == nil || d.svc.Typist == nil {
		return fmt.Errorf("word processor not available")
	}
	if err := d.svc.Apps.Open("word"); err != nil {
		return fmt.Errorf("open word processor: %w", err)
	}
	if err := d.svc.Typist.Shortcut("new_document"); err != nil {
		return fmt.Errorf("new document: %w", err)
	}
	if err := d.svc.Typist.Type(header + "\n\n"); err != nil {
		return fmt.Errorf("type header: %w", err)
	}
	for _, paragraph := range strings.Split(content, "\n\n") {
		if paragraph = strings.TrimSpace(paragraph); paragraph == "" {
			continue
		}
		if err := d.svc.Typist.Type(paragraph + "\n\n"); err != nil {
			return fmt.Errorf("type paragraph: %w", err)
		}
	}
	return nil
}

// typeReport best-effort types a finished report into the word
// processor; failures only get logged since the report is also spoken.
func (d *Dispatcher) typeReport(report string) {
	if d.svc.Apps == nil || d.svc.Typist == nil {
		return
	}
	if err := d.typeIntoDocument("", report); err != nil {
		slog.Warn("report typing failed", "err", err)
	}
}

var tickerMap = map[string]string{
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"google":    "GOOGL",
	"amazon":    "AMZN",
	"tesla":     "TSLA",
}

// stockPrices handles "check stock price of apple" style queries by
// opening a web search for the ticker.
func (d *Dispatcher) stockPrices(ctx context.Context, text string) (string, bool) {
	if !containsAny(text, "stock price", "stock prices", "stock market", "check stock") {
		return "", false
	}
	if d.svc.Browser == nil {
		return "Stock lookups aren't available right now.", true
	}

	query := "stock market today"
	if _, name, ok := strings.Cut(text, " of "); ok {
		name = strings.TrimSpace(name)
		if ticker, known := tickerMap[name]; known {
			query = ticker + " stock price"
		} else if name != "" {
			query = name + " stock price"
		}
	}
	if err := d.svc.Browser.Search(ctx, "google", query); err != nil {
		slog.Error("stock search failed", "err", err)
		return "I couldn't check the stock market right now.", true
	}
	return "Checking the stock market for you.", true
}

// shellCommand handles explicit "run command <line>" requests.
func (d *Dispatcher) shellCommand(ctx context.Context, text string) (string, bool) {
	line, ok := strings.CutPrefix(text, "run command ")
	if !ok {
		line, ok = strings.CutPrefix(text, "execute command ")
	}
	if !ok || strings.TrimSpace(line) == "" {
		return "", false
	}
	if d.svc.Shell == nil {
		return "Shell commands aren't available right now.", true
	}
	out, err := d.svc.Shell.Run(ctx, strings.TrimSpace(line))
	if err != nil {
		slog.Error("shell command failed", "line", line, "err", err)
		return "The command failed: " + firstSentence(out), true
	}
	if out = strings.TrimSpace(out); out == "" {
		return "Command completed.", true
	}
	return "Command completed. Output: " + firstSentence(out), true
}

func firstSentence(text string) string {
	if idx := strings.IndexAny(text, ".\n"); idx > 0 {
		return text[:idx+1]
	}
	return text
}
