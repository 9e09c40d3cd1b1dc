// Package compound splits an utterance joined by connector words into
// sub-utterances and runs them through the dispatcher. Sequential
// connectors take precedence over parallel ones; the first connector
// type found decides the whole split.
package compound

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type Mode int

const (
	ModeNone Mode = iota
	ModeSequential
	ModeParallel
	ModeChoice
)

// Connector precedence: sequential checked before parallel, choice
// last. Padded with spaces so "sand" never matches "and".
var (
	sequentialConnectors = []string{" then ", " after ", " followed by "}
	parallelConnectors   = []string{" and ", " while "}
	choiceConnectors     = []string{" or "}
)

// Split finds the first connector type present and splits on every
// occurrence of that connector. Mode is ModeNone for a plain utterance.
func Split(text string) (Mode, []string) {
	for _, c := range sequentialConnectors {
		if strings.Contains(text, c) {
			return ModeSequential, parts(text, c)
		}
	}
	for _, c := range parallelConnectors {
		if strings.Contains(text, c) {
			return ModeParallel, parts(text, c)
		}
	}
	for _, c := range choiceConnectors {
		if strings.Contains(text, c) {
			return ModeChoice, parts(text, c)
		}
	}
	return ModeNone, []string{text}
}

func parts(text, connector string) []string {
	raw := strings.Split(text, connector)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DispatchFunc runs one sub-utterance to completion and returns its
// user-facing result.
type DispatchFunc func(ctx context.Context, utterance string) string

// Runner executes a split utterance.
type Runner struct {
	Dispatch DispatchFunc
}

// Run splits and executes. Sequential sub-tasks run strictly left to
// right, each completing before the next starts. Parallel sub-tasks run
// concurrently; one failing sibling never cancels the others, and the
// combined output is always in original textual order regardless of
// completion order.
func (r *Runner) Run(ctx context.Context, text string) (string, bool) {
	mode, tasks := Split(text)
	switch mode {
	case ModeNone:
		return "", false
	case ModeChoice:
		return fmt.Sprintf("Which would you like: %s?", strings.Join(tasks, ", or ")), true
	case ModeSequential:
		results := make([]string, 0, len(tasks))
		for _, task := range tasks {
			results = append(results, r.runOne(ctx, task))
		}
		return strings.Join(results, "\n"), true
	default: // ModeParallel
		results := make([]string, len(tasks))
		var wg sync.WaitGroup
		for i, task := range tasks {
			wg.Add(1)
			go func(i int, task string) {
				defer wg.Done()
				results[i] = r.runOne(ctx, task)
			}(i, task)
		}
		wg.Wait()
		return strings.Join(results, "\n"), true
	}
}

// runOne shields siblings from a panicking sub-task; the failure is
// reported inline with the rest of the results.
func (r *Runner) runOne(ctx context.Context, task string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			result = fmt.Sprintf("%s: failed (%v)", task, rec)
		}
	}()
	return r.Dispatch(ctx, task)
}
