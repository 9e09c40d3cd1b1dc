package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

// volumes are PulseAudio percentages, capped at 150.
const maxVolume = 150

type streamInfo struct {
	ID      int
	Volume  int
	AppName string
}

type fadeTarget struct {
	id   int
	from int
	to   int
}

// Ducker fades down every other application's audio stream while the
// assistant is listening, so playback does not bleed into the
// microphone, and restores the original volumes afterwards. Streams
// whose application.name matches ownNames are left alone.
type Ducker struct {
	mu       sync.Mutex
	active   bool
	ownNames []string
	savedVol map[int]int // sink-input id -> volume before ducking
	floorVol int
}

func NewDucker(ownNames []string, floorVol int) *Ducker {
	if floorVol < 0 {
		floorVol = 0
	}
	if floorVol > maxVolume {
		floorVol = maxVolume
	}
	return &Ducker{
		ownNames: append([]string(nil), ownNames...),
		savedVol: make(map[int]int),
		floorVol: floorVol,
	}
}

// Duck fades foreign streams to current*factor, never below the floor.
// Calling it while already ducked is a no-op.
func (d *Ducker) Duck(ctx context.Context, factor float64, fade time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := listSinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	d.savedVol = make(map[int]int)
	var targets []fadeTarget
	for _, s := range streams {
		if d.isOwn(s) {
			continue
		}
		to := int(math.Round(float64(s.Volume) * factor))
		if to < d.floorVol {
			to = d.floorVol
		}
		d.savedVol[s.ID] = s.Volume
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: to})
	}

	if err := fadeAll(ctx, targets, fade); err != nil {
		return err
	}
	d.active = true
	return nil
}

// Unduck fades the previously ducked streams back to their saved
// volumes. Streams that appeared after Duck are left untouched.
func (d *Ducker) Unduck(ctx context.Context, fade time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := listSinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	var targets []fadeTarget
	for _, s := range streams {
		if d.isOwn(s) {
			continue
		}
		orig, ok := d.savedVol[s.ID]
		if !ok {
			continue
		}
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: orig})
	}

	if err := fadeAll(ctx, targets, fade); err != nil {
		return err
	}
	d.savedVol = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) isOwn(s streamInfo) bool {
	for _, name := range d.ownNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

// fadeAll steps every target from its current volume to its goal over
// the fade window.
func fadeAll(ctx context.Context, targets []fadeTarget, fade time.Duration) error {
	if len(targets) == 0 {
		return nil
	}
	if fade <= 0 {
		for _, t := range targets {
			if err := setSinkInputVolume(ctx, t.id, t.to); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}
		return nil
	}

	const stepEvery = 10 * time.Millisecond
	steps := int(fade / stepEvery)
	if steps < 1 {
		steps = 1
	}

	for i := 0; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frac := float64(i) / float64(steps)
		for _, t := range targets {
			v := t.from + int(math.Round(float64(t.to-t.from)*frac))
			if err := setSinkInputVolume(ctx, t.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}
		if i < steps {
			time.Sleep(fade / time.Duration(steps))
		}
	}
	return nil
}

// listSinkInputs parses `pactl list sink-inputs` into stream records.
func listSinkInputs(ctx context.Context) ([]streamInfo, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	blocks := strings.Split(string(out), "Sink Input #")
	var res []streamInfo
	for _, block := range blocks[1:] {
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := streamInfo{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					s.Volume, _ = strconv.Atoi(m[1])
				}
			}
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if _, quoted, ok := strings.Cut(line, `"`); ok {
					s.AppName, _, _ = strings.Cut(quoted, `"`)
				}
			}
		}
		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}
	return res, nil
}

func setSinkInputVolume(ctx context.Context, id, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > maxVolume {
		percent = maxVolume
	}
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume",
		strconv.Itoa(id), fmt.Sprintf("%d%%", percent)).Run()
}
