package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Messages shown in the output pane.
const (
	OutputReady       = "// Ready"
	OutputNoOutput    = "No output"
	OutputEmptyInput  = "⚠ Please write some code first."
	OutputServerError = "⚠ Server error. Please try again later."
	OutputInFlight    = "⚠ A run is already in progress."
	outputErrorBanner = "⚠ Error:"
)

// OutcomeKind says how a dispatch ended.
type OutcomeKind int

const (
	// OutcomeOutput carries text for the output pane.
	OutcomeOutput OutcomeKind = iota
	// OutcomePreview means a rendered document was opened.
	OutcomePreview
)

// Outcome is the result of a successful dispatch.
type Outcome struct {
	Kind     OutcomeKind
	Output   string
	Result   RunResult
	Document string
}

// Dispatcher runs remote languages and previews local ones.
// Only one remote run may be outstanding at a time.
// Dispatcher запускает код удалённо или открывает предпросмотр локально.
type Dispatcher struct {
	executor Executor
	browser  Browser
	running  *atomic.Bool
	stats    tally.Scope
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil stats scope disables metrics.
func NewDispatcher(executor Executor, browser Browser, stats tally.Scope, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stats == nil {
		stats = tally.NoopScope
	}
	return &Dispatcher{
		executor: executor,
		browser:  browser,
		running:  atomic.NewBool(false),
		stats:    stats.SubScope("dispatch"),
		logger:   logger,
	}
}

// Running reports whether a remote run is outstanding.
func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

// NeedsNetwork reports whether dispatching lang/code would contact the
// execution service, i.e. whether the caller should show the running state.
func (d *Dispatcher) NeedsNetwork(lang Language, code string) bool {
	t, ok := LookupTemplate(lang)
	return ok && t.Strategy == RemoteExecute && !isBlank(code)
}

// Dispatch runs or previews code according to the language strategy.
func (d *Dispatcher) Dispatch(ctx context.Context, lang Language, code string) (Outcome, error) {
	t, ok := LookupTemplate(lang)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	switch t.Strategy {
	case LocalRender:
		return d.preview(lang, code)
	default:
		return d.execute(ctx, t, code)
	}
}

func (d *Dispatcher) preview(lang Language, code string) (Outcome, error) {
	doc, err := DocumentFor(lang, code)
	if err != nil {
		return Outcome{}, err
	}
	if err := d.browser.OpenDocument(doc); err != nil {
		d.stats.Counter("preview_failed").Inc(1)
		return Outcome{}, fmt.Errorf("%w: %v", ErrPreview, err)
	}
	d.stats.Counter("previews").Inc(1)
	d.logger.Debug("preview opened", zap.String("language", string(lang)), zap.Int("bytes", len(doc)))
	return Outcome{Kind: OutcomePreview, Document: doc}, nil
}

func (d *Dispatcher) execute(ctx context.Context, t Template, code string) (Outcome, error) {
	if isBlank(code) {
		d.stats.Counter("empty_input").Inc(1)
		return Outcome{}, ErrEmptyInput
	}
	if !d.running.CompareAndSwap(false, true) {
		d.stats.Counter("rejected").Inc(1)
		return Outcome{}, ErrRunInFlight
	}
	defer d.running.Store(false)

	stats := d.stats.Tagged(map[string]string{"language": string(t.Language)})
	stats.Counter("runs").Inc(1)
	sw := stats.Timer("latency").Start()
	res, err := d.executor.Execute(ctx, ExecRequest{
		Language: t.RemoteName,
		Version:  "*",
		Source:   code,
	})
	sw.Stop()
	if err != nil {
		stats.Counter("failed").Inc(1)
		d.logger.Warn("run failed", zap.String("language", string(t.Language)), zap.Error(err))
		if !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return Outcome{}, err
	}
	stats.Counter("success").Inc(1)
	d.logger.Info("run finished",
		zap.String("language", string(t.Language)),
		zap.Int("stdout", len(res.Stdout)),
		zap.Int("stderr", len(res.Stderr)))
	return Outcome{Kind: OutcomeOutput, Output: FormatOutput(res), Result: res}, nil
}

// FormatOutput maps a run result to the text shown in the output pane.
func FormatOutput(res RunResult) string {
	if res.Stdout == "" && res.Stderr == "" {
		return OutputNoOutput
	}
	out := res.Stdout
	if res.Stderr != "" {
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += "\n" + outputErrorBanner + "\n" + res.Stderr
	}
	return out
}

// Message maps a dispatch error to the text shown in the output pane.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return OutputEmptyInput
	case errors.Is(err, ErrRunInFlight):
		return OutputInFlight
	case errors.Is(err, ErrPreview), errors.Is(err, ErrUnknownLanguage):
		return "⚠ " + err.Error()
	default:
		return OutputServerError
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
