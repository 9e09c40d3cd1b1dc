package dispatch

import "context"

// Collaborator interfaces. The dispatcher accepts interfaces so every
// external surface can be doubled in tests; the daemon wires the real
// implementations.

type Music interface {
	Play(ctx context.Context, query string) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
}

type Browser interface {
	OpenURL(ctx context.Context, url string) error
	Search(ctx context.Context, site, query string) error
	PlayYouTube(ctx context.Context, query string) error
}

type System interface {
	VolumeUp() error
	VolumeDown() error
	TakeScreenshot() (string, error)
}

type Apps interface {
	Open(name string) error
	Close(name string) error
}

type Typist interface {
	Type(text string) error
	Shortcut(name string) error
}

type FileSearcher interface {
	OpenExplorer() error
	Search(query string) ([]string, error)
	OpenResult(n int) (string, error)
}

type Camera interface {
	Capture(ctx context.Context) (string, error)
}

type Vision interface {
	Describe(ctx context.Context, imagePath, prompt string) (string, error)
}

type VoiceChanger interface {
	SetVoice(name string) error
}

type WakeChanger interface {
	SetKeyword(word string) error
}

type Shell interface {
	Run(ctx context.Context, line string) (string, error)
}

type Fallback interface {
	Respond(ctx context.Context, prompt string) string
}
