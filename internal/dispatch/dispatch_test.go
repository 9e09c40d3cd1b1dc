package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vani/internal/intent"
	"vani/internal/llm"
)

type fakeMusic struct {
	played string
	paused bool
	err    error
}

func (f *fakeMusic) Play(_ context.Context, q string) error { f.played = q; return f.err }
func (f *fakeMusic) Pause(context.Context) error            { f.paused = true; return f.err }
func (f *fakeMusic) Next(context.Context) error             { return f.err }
func (f *fakeMusic) Previous(context.Context) error         { return f.err }

type fakeBrowser struct {
	opened   string
	searched []string
	youtube  string
	err      error
}

func (f *fakeBrowser) OpenURL(_ context.Context, url string) error { f.opened = url; return f.err }
func (f *fakeBrowser) Search(_ context.Context, site, q string) error {
	f.searched = append(f.searched, site+"|"+q)
	return f.err
}
func (f *fakeBrowser) PlayYouTube(_ context.Context, q string) error { f.youtube = q; return f.err }

type fakeSystem struct {
	ups, downs int
	shot       string
	err        error
}

func (f *fakeSystem) VolumeUp() error   { f.ups++; return f.err }
func (f *fakeSystem) VolumeDown() error { f.downs++; return f.err }
func (f *fakeSystem) TakeScreenshot() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.shot, nil
}

type fakeApps struct {
	opened, closed []string
	err            error
}

func (f *fakeApps) Open(name string) error  { f.opened = append(f.opened, name); return f.err }
func (f *fakeApps) Close(name string) error { f.closed = append(f.closed, name); return f.err }

type fakeFiles struct {
	results  []string
	queries  []string
	opened   []int
	explorer bool
	err      error
}

func (f *fakeFiles) OpenExplorer() error { f.explorer = true; return f.err }
func (f *fakeFiles) Search(q string) ([]string, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}
func (f *fakeFiles) OpenResult(n int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if n < 1 || n > len(f.results) {
		return "", errors.New("no such result")
	}
	f.opened = append(f.opened, n)
	return filepath.Base(f.results[n-1]), nil
}

type fakeFallback struct {
	prompts []string
	reply   string
}

func (f *fakeFallback) Respond(_ context.Context, prompt string) string {
	f.prompts = append(f.prompts, prompt)
	return f.reply
}

type panickyProvider struct{}

func (panickyProvider) Generate(context.Context, string, llm.GenerationConfig) (string, error) {
	panic("provider exploded")
}
func (panickyProvider) Describe(context.Context, string, string) (string, error) {
	panic("provider exploded")
}
func (panickyProvider) Name() string { return "panicky" }

func TestStopGate(t *testing.T) {
	stopped := false
	d := New(Services{Stop: func() { stopped = true }}, nil)

	reply := d.Handle(context.Background(), "please stop speaking")
	assert.Equal(t, "Stopped.", reply)
	assert.True(t, stopped)
}

// The stop gate beats an active flight session.
func TestStopGateBeatsDialogue(t *testing.T) {
	d := New(Services{Stop: func() {}}, nil)
	d.Handle(context.Background(), "compare flights from yto to del")
	require.True(t, d.FlightSessionActive())

	assert.Equal(t, "Stopped.", d.Handle(context.Background(), "stop"))
}

func TestMusicRouting(t *testing.T) {
	music := &fakeMusic{}
	browser := &fakeBrowser{}
	d := New(Services{Music: music, Browser: browser}, nil)

	reply := d.Handle(context.Background(), "play bohemian rhapsody")
	assert.Equal(t, "bohemian rhapsody", music.played)
	assert.Equal(t, "Playing bohemian rhapsody on Spotify.", reply)

	d.Handle(context.Background(), "play lofi beats on youtube")
	assert.Equal(t, "lofi beats", browser.youtube)

	d.Handle(context.Background(), "pause music")
	assert.True(t, music.paused)
}

func TestMusicEmptySlotAsks(t *testing.T) {
	d := New(Services{Music: &fakeMusic{}}, nil)
	assert.Equal(t, "Please specify what to play", d.Handle(context.Background(), "play"))
}

func TestCollaboratorErrorBecomesSentence(t *testing.T) {
	music := &fakeMusic{err: errors.New("no active device")}
	d := New(Services{Music: music}, nil)

	reply := d.Handle(context.Background(), "play something")
	assert.True(t, strings.HasPrefix(reply, "Sorry, I couldn't"), reply)
}

func TestMissingCollaboratorDegrades(t *testing.T) {
	d := New(Services{}, nil)
	reply := d.Handle(context.Background(), "pause music")
	assert.Equal(t, "Music control isn't available right now.", reply)

	reply = d.Handle(context.Background(), "take screenshot")
	assert.Equal(t, "Screenshots aren't available right now.", reply)
}

func TestSystemRouting(t *testing.T) {
	sys := &fakeSystem{}
	apps := &fakeApps{}
	d := New(Services{System: sys, Apps: apps}, nil)

	d.Handle(context.Background(), "volume up")
	assert.Equal(t, 1, sys.ups)

	d.Handle(context.Background(), "open calculator")
	assert.Equal(t, []string{"calculator"}, apps.opened)

	d.Handle(context.Background(), "close chrome")
	assert.Equal(t, []string{"chrome"}, apps.closed)
}

func TestFlightDialogueThroughDispatcher(t *testing.T) {
	browser := &fakeBrowser{}
	d := New(Services{Browser: browser}, nil)

	reply := d.Handle(context.Background(), "compare flights from yto to del")
	assert.Equal(t, "Do you have a specific date, or are you flexible?", reply)

	// Mid-session turns are consumed whole, even ones that would
	// otherwise classify elsewhere.
	reply = d.Handle(context.Background(), "specific")
	assert.Equal(t, "What date do you want to leave? Please use DD/MM/YYYY.", reply)

	for _, turn := range []string{"15/06/2024", "yes", "22/06/2024", "economy", "2", "0"} {
		d.Handle(context.Background(), turn)
	}
	reply = d.Handle(context.Background(), "no")
	assert.Equal(t, "Opening Skyscanner with your flight search...", reply)
	assert.Equal(t,
		"https://www.skyscanner.ca/transport/flights/yto/del/240615/240622/?adultsv2=2&cabinclass=economy&childrenv2=0&inboundaltsenabled=false&outboundaltsenabled=false&preferdirects=false&ref=home&rtn=1",
		browser.opened)
	assert.False(t, d.FlightSessionActive())
}

func TestInvalidDialogueAnswerReasks(t *testing.T) {
	d := New(Services{}, nil)
	d.Handle(context.Background(), "compare flights from yto to del")
	d.Handle(context.Background(), "specific")

	reply := d.Handle(context.Background(), "next friday")
	assert.Equal(t, "I didn't understand. What date do you want to leave? Please use DD/MM/YYYY.", reply)
	assert.True(t, d.FlightSessionActive())
}

func TestConversationFallback(t *testing.T) {
	fb := &fakeFallback{reply: "Sure, here is a fact."}
	d := New(Services{Fallback: fb}, nil)

	reply := d.Handle(context.Background(), "tell me something interesting")
	assert.Equal(t, "Sure, here is a fact.", reply)
	require.Len(t, fb.prompts, 1)

	d = New(Services{}, nil)
	assert.Equal(t, "I'm not sure how to help with that",
		d.Handle(context.Background(), "tell me something interesting"))
}

func TestCapabilitiesAndCanned(t *testing.T) {
	d := New(Services{}, nil)
	assert.Contains(t, d.Handle(context.Background(), "what can you do"), "personal assistant")
	assert.Equal(t, "Hello! How can I help you?", d.Handle(context.Background(), "hello"))
	assert.Equal(t, "You're welcome!", d.Handle(context.Background(), "thank you"))
}

func TestEmptyUtterance(t *testing.T) {
	d := New(Services{}, nil)
	assert.Equal(t, "No command received", d.Handle(context.Background(), "   "))
}

// A panicking collaborator is contained by the dispatcher boundary.
func TestHandleRecoversPanic(t *testing.T) {
	d := New(Services{Provider: panickyProvider{}, Apps: &fakeApps{}, Typist: nil}, nil)
	reply := d.Handle(context.Background(), "research the history of tea")
	assert.Equal(t, "Something went wrong handling that.", reply)
}

func TestSearchRouting(t *testing.T) {
	browser := &fakeBrowser{}
	d := New(Services{Browser: browser}, nil)

	reply := d.Handle(context.Background(), "search for golang tutorials on youtube")
	require.Len(t, browser.searched, 1)
	assert.Equal(t, "youtube|golang tutorials", browser.searched[0])
	assert.Equal(t, "Searched for golang tutorials on youtube.", reply)
}

// A numbered follow-up after a file search opens the remembered
// result instead of launching an application called "file 2".
func TestOpenFileSearchResult(t *testing.T) {
	files := &fakeFiles{results: []string{"/home/u/report.pdf", "/home/u/docs/annual_report.txt"}}
	apps := &fakeApps{}
	d := New(Services{Files: files, Apps: apps}, nil)

	reply := d.Handle(context.Background(), "search files for report")
	require.Equal(t, []string{"report"}, files.queries)
	assert.Contains(t, reply, "Found 2 files")

	reply = d.Handle(context.Background(), "open file 2")
	assert.Equal(t, "Opened annual_report.txt.", reply)
	assert.Equal(t, []int{2}, files.opened)
	assert.Empty(t, apps.opened)

	reply = d.Handle(context.Background(), "open number 9")
	assert.Equal(t, "I don't have a search result with that number. Search for a file first.", reply)

	d.Handle(context.Background(), "open firefox")
	assert.Equal(t, []string{"firefox"}, apps.opened)
}

type fakeShell struct {
	line string
	out  string
	err  error
}

func (f *fakeShell) Run(_ context.Context, line string) (string, error) {
	f.line = line
	return f.out, f.err
}

func TestShellCommand(t *testing.T) {
	sh := &fakeShell{out: "ok\n"}
	d := New(Services{Shell: sh}, nil)

	reply := d.Handle(context.Background(), "run command uptime")
	assert.Equal(t, "uptime", sh.line)
	assert.Equal(t, "Command completed. Output: ok", reply)

	sh.err = errors.New("exit 1")
	sh.out = "not found"
	reply = d.Handle(context.Background(), "execute command frobnicate")
	assert.True(t, strings.HasPrefix(reply, "The command failed"), reply)

	d = New(Services{}, nil)
	assert.Equal(t, "Shell commands aren't available right now.",
		d.Handle(context.Background(), "run command ls"))
}

func TestClassifierInjection(t *testing.T) {
	rules := []intent.Rule{{Category: intent.CategoryScreenshot, Triggers: []string{"snap"}}}
	sys := &fakeSystem{shot: "/tmp/shot.png"}
	d := New(Services{System: sys}, intent.NewClassifier(rules))

	reply := d.Handle(context.Background(), "snap it")
	assert.Equal(t, "Screenshot taken and saved.", reply)
}
