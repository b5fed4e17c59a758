package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

type fakeExecutor struct {
	mu      sync.Mutex
	calls   []ExecRequest
	result  RunResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeExecutor) Execute(ctx context.Context, req ExecRequest) (RunResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return RunResult{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeExecutor) Calls() []ExecRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ExecRequest(nil), f.calls...)
}

type fakeBrowser struct {
	mu   sync.Mutex
	docs []string
	urls []string
	err  error
}

func (f *fakeBrowser) OpenDocument(doc string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeBrowser) OpenURL(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.urls = append(f.urls, url)
	return nil
}

func TestDispatchRemote(t *testing.T) {
	exec := &fakeExecutor{result: RunResult{Stdout: "3\n"}}
	d := NewDispatcher(exec, &fakeBrowser{}, nil, nil)

	out, err := d.Dispatch(context.Background(), LangPython, "print(1+2)")
	require.NoError(t, err)
	assert.Equal(t, OutcomeOutput, out.Kind)
	assert.Equal(t, "3\n", out.Output)

	calls := exec.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ExecRequest{Language: "python", Version: "*", Source: "print(1+2)"}, calls[0])
}

func TestDispatchUsesRemoteName(t *testing.T) {
	exec := &fakeExecutor{}
	d := NewDispatcher(exec, &fakeBrowser{}, nil, nil)

	_, err := d.Dispatch(context.Background(), LangCpp, "int main(){}")
	require.NoError(t, err)
	assert.Equal(t, "c++", exec.Calls()[0].Language)
}

func TestDispatchEmptyInput(t *testing.T) {
	exec := &fakeExecutor{}
	d := NewDispatcher(exec, &fakeBrowser{}, nil, nil)

	for _, code := range []string{"", "   ", "\n\t\n"} {
		_, err := d.Dispatch(context.Background(), LangPython, code)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Empty(t, exec.Calls())
	assert.False(t, d.NeedsNetwork(LangPython, " "))
	assert.True(t, d.NeedsNetwork(LangPython, "x"))
}

func TestDispatchMarkupPreview(t *testing.T) {
	exec := &fakeExecutor{}
	browser := &fakeBrowser{}
	d := NewDispatcher(exec, browser, nil, nil)

	out, err := d.Dispatch(context.Background(), LangHTML, "<h1>hi</h1>")
	require.NoError(t, err)
	assert.Equal(t, OutcomePreview, out.Kind)
	require.Len(t, browser.docs, 1)
	assert.Contains(t, browser.docs[0], "<h1>hi</h1>")
	assert.Empty(t, exec.Calls())
	assert.False(t, d.NeedsNetwork(LangHTML, "<h1>hi</h1>"))
}

func TestDispatchPreviewFailure(t *testing.T) {
	d := NewDispatcher(&fakeExecutor{}, &fakeBrowser{err: errors.New("no display")}, nil, nil)

	_, err := d.Dispatch(context.Background(), LangCSS, "body{}")
	assert.ErrorIs(t, err, ErrPreview)
	assert.Contains(t, Message(err), "no display")
}

func TestDispatchTransportError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("connection refused")}
	d := NewDispatcher(exec, &fakeBrowser{}, nil, nil)

	_, err := d.Dispatch(context.Background(), LangGo, "package main")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, OutputServerError, Message(err))
	assert.False(t, d.Running())
}

func TestDispatchUnknownLanguage(t *testing.T) {
	d := NewDispatcher(&fakeExecutor{}, &fakeBrowser{}, nil, nil)
	_, err := d.Dispatch(context.Background(), Language("cobol"), "x")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestDispatchRejectsConcurrentRun(t *testing.T) {
	exec := &fakeExecutor{
		result:  RunResult{Stdout: "first"},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	d := NewDispatcher(exec, &fakeBrowser{}, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := d.Dispatch(context.Background(), LangPython, "print(1)")
		done <- err
	}()
	<-exec.started
	assert.True(t, d.Running())

	_, err := d.Dispatch(context.Background(), LangPython, "print(2)")
	assert.ErrorIs(t, err, ErrRunInFlight)
	assert.Equal(t, OutputInFlight, Message(err))

	close(exec.release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not finish")
	}
	assert.False(t, d.Running())
	assert.Len(t, exec.Calls(), 1)
}

func TestDispatchStats(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	exec := &fakeExecutor{result: RunResult{Stdout: "ok"}}
	d := NewDispatcher(exec, &fakeBrowser{}, scope, nil)

	_, err := d.Dispatch(context.Background(), LangPython, "print(1)")
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), LangPython, "")
	require.Error(t, err)

	counters := scope.Snapshot().Counters()
	runs, ok := counters["dispatch.runs+language=python"]
	require.True(t, ok)
	assert.EqualValues(t, 1, runs.Value())
	empty, ok := counters["dispatch.empty_input+"]
	require.True(t, ok)
	assert.EqualValues(t, 1, empty.Value())
}

func TestFormatOutput(t *testing.T) {
	tests := []struct {
		name string
		res  RunResult
		want string
	}{
		{"stdout only", RunResult{Stdout: "3\n"}, "3\n"},
		{"nothing", RunResult{}, OutputNoOutput},
		{"stderr only", RunResult{Stderr: "boom"}, "\n⚠ Error:\nboom"},
		{"both", RunResult{Stdout: "partial", Stderr: "boom"}, "partial\n\n⚠ Error:\nboom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOutput(tt.res))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, OutputEmptyInput, Message(ErrEmptyInput))
	assert.Equal(t, OutputServerError, Message(errors.New("anything else")))
}
