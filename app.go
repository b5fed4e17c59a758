package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// statusTTL is how long a status message stays visible.
const statusTTL = 5 * time.Second

// runDoneEvent carries a finished remote run back to the event loop.
type runDoneEvent struct {
	tcell.EventTime
	gen     int
	outcome Outcome
	err     error
}

// Prompt represents a prompt for user input.
// Prompt представляет запрос пользовательского ввода.
type Prompt struct {
	Label    string
	Value    string
	Callback func(string)
}

// AppDeps are the collaborators of the terminal UI.
type AppDeps struct {
	Store      *Store
	Exporter   *Exporter
	Dispatcher *Dispatcher
	Browser    Browser
	// Preview is optional; nil disables the live preview.
	Preview *PreviewServer
	Logger  *zap.Logger
}

// App is the terminal playground. All state is owned by the event loop
// goroutine; background runs report back through runDoneEvent.
// App представляет терминальную песочницу.
type App struct {
	screen     tcell.Screen
	store      *Store
	exporter   *Exporter
	dispatcher *Dispatcher
	browser    Browser
	preview    *PreviewServer
	logger     *zap.Logger
	theme      Theme

	ws     Workspace
	buf    *Buffer
	layout *Layout

	output       string
	outputIsErr  bool
	outputScroll int
	running      bool
	// runGen is bumped whenever the file is replaced; results of runs
	// started before that are dropped.
	runGen int

	prompt        *Prompt
	statusMsg     string
	statusIsError bool
	statusTime    time.Time

	mouseDown bool
	width     int
	height    int
	quit      bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	post   func(tcell.Event) error
	now    func() time.Time
}

// NewApp rehydrates the workspace from the store and builds the UI state.
func NewApp(screen tcell.Screen, deps AppDeps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ws := deps.Store.Load()
	a := &App{
		screen:     screen,
		store:      deps.Store,
		exporter:   deps.Exporter,
		dispatcher: deps.Dispatcher,
		browser:    deps.Browser,
		preview:    deps.Preview,
		logger:     logger,
		theme:      VSDarkTheme(),
		ws:         ws,
		buf:        NewBuffer(ws.ActiveFile().Code),
		layout:     NewLayout(ws.EditorWidth),
		output:     OutputReady,
		ctx:        ctx,
		cancel:     cancel,
		post:       screen.PostEvent,
		now:        time.Now,
	}
	a.syncPreview()
	logger.Info("workspace loaded",
		zap.String("language", string(ws.Language)),
		zap.String("file", ws.ActiveFile().Name),
		zap.Float64("editorWidth", ws.EditorWidth))
	return a
}

// Run starts the event loop and blocks until the user quits.
// Run запускает основной цикл приложения.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return err
	}
	defer a.screen.Fini()
	a.screen.EnableMouse()
	a.measure()
	for !a.quit {
		a.render()
		a.handleEvent(a.screen.PollEvent())
	}
	a.Close()
	return nil
}

// Close cancels outstanding work and waits for background runs to finish.
func (a *App) Close() {
	a.cancel()
	a.wg.Wait()
}

func (a *App) handleEvent(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(tev)
	case *tcell.EventMouse:
		a.handleMouse(tev)
	case *tcell.EventResize:
		a.measure()
		a.screen.Sync()
	case *runDoneEvent:
		if tev.gen != a.runGen {
			a.logger.Debug("stale run result dropped", zap.Int("gen", tev.gen), zap.Int("current", a.runGen))
			return
		}
		a.finishRun(tev.outcome, tev.err)
	case nil:
		a.quit = true
	}
}

// measure takes one viewport measurement and fixes the layout mode for it.
func (a *App) measure() {
	a.width, a.height = a.screen.Size()
	top := 1
	height := a.height - 2
	if a.width < NarrowWidth {
		top = 2
		height = a.height - 3
	}
	if height < 0 {
		height = 0
	}
	a.layout.Measure(0, top, a.width, height)
}

// codeVisible reports whether the editor pane is on screen.
func (a *App) codeVisible() bool {
	return a.layout.Mode() == LayoutSplit || a.layout.Tab() == TabCode
}

// handleKey handles keyboard input.
// handleKey обрабатывает ввод с клавиатуры.
func (a *App) handleKey(ev *tcell.EventKey) {
	if a.prompt != nil {
		a.handlePromptInput(ev)
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		a.quit = true
		return
	case tcell.KeyCtrlR, tcell.KeyF5:
		a.runOrPreview()
		return
	case tcell.KeyCtrlS:
		a.exportFile()
		return
	case tcell.KeyCtrlN:
		a.resetWorkspace()
		return
	case tcell.KeyCtrlL:
		a.promptLanguage()
		return
	case tcell.KeyF2:
		a.changeLanguage(NextLanguage(a.ws.Language))
		return
	case tcell.KeyCtrlO, tcell.KeyF6:
		a.toggleTab()
		return
	case tcell.KeyCtrlP:
		a.openLivePreview()
		return
	case tcell.KeyCtrlY:
		a.copyOutput()
		return
	case tcell.KeyF1:
		a.setOutput(keysHelp(detectSystemLanguage()), false)
		a.layout.SetTab(TabOutput)
		return
	}

	if !a.codeVisible() {
		switch ev.Key() {
		case tcell.KeyUp:
			a.scrollOutput(-1)
		case tcell.KeyDown:
			a.scrollOutput(1)
		case tcell.KeyPgUp:
			a.scrollOutput(-a.layout.height)
		case tcell.KeyPgDn:
			a.scrollOutput(a.layout.height)
		}
		return
	}

	edited := true
	switch ev.Key() {
	case tcell.KeyCtrlZ:
		edited = a.buf.Undo()
	case tcell.KeyCtrlE:
		edited = a.buf.Redo()
	case tcell.KeyCtrlV:
		edited = a.pasteFromClipboard()
	case tcell.KeyEnter:
		a.buf.Newline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.buf.Backspace()
	case tcell.KeyDelete:
		a.buf.Delete()
	case tcell.KeyTab:
		a.buf.InsertRune('\t')
	case tcell.KeyRune:
		a.buf.InsertRune(ev.Rune())
	default:
		edited = false
		a.moveCursor(ev.Key())
	}
	if edited {
		a.codeChanged()
	}
}

func (a *App) moveCursor(key tcell.Key) {
	page := a.layout.height
	if page < 1 {
		page = 1
	}
	switch key {
	case tcell.KeyLeft:
		a.buf.MoveLeft()
	case tcell.KeyRight:
		a.buf.MoveRight()
	case tcell.KeyUp:
		a.buf.MoveUp(1)
	case tcell.KeyDown:
		a.buf.MoveDown(1)
	case tcell.KeyHome:
		a.buf.Home()
	case tcell.KeyEnd:
		a.buf.End()
	case tcell.KeyPgUp:
		a.buf.MoveUp(page)
	case tcell.KeyPgDn:
		a.buf.MoveDown(page)
	}
}

// handleMouse drives the divider drag and pane clicks.
// Press on the divider starts a drag, motion with the button held resizes,
// release anywhere ends it.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		a.scrollAt(x, -3)
		return
	case buttons&tcell.WheelDown != 0:
		a.scrollAt(x, 3)
		return
	}

	if buttons&tcell.Button1 == 0 {
		if a.mouseDown {
			a.mouseDown = false
			a.layout.PointerUp()
		}
		return
	}

	if a.mouseDown {
		if a.layout.PointerMove(x) {
			a.ws.SetEditorWidth(a.layout.Ratio())
			a.save()
		}
		return
	}

	a.mouseDown = true
	if a.layout.PointerDown(x, y) {
		return
	}
	if a.layout.Mode() == LayoutTabbed && y == a.layout.top-1 {
		if x < tabOutputX {
			a.layout.SetTab(TabCode)
		} else {
			a.layout.SetTab(TabOutput)
		}
		return
	}
	if a.codeVisible() && y >= a.layout.top && y < a.layout.top+a.layout.height && x < a.layout.EditorColumns() {
		a.clickEditor(x, y)
	}
}

func (a *App) clickEditor(x, y int) {
	offX, offY := a.buf.Offset()
	line := offY + y - a.layout.top
	if line >= len(a.buf.Lines()) {
		line = len(a.buf.Lines()) - 1
	}
	col := x - gutterWidth(len(a.buf.Lines())) + offX
	if col < 0 {
		col = 0
	}
	a.buf.SetCursor(runeIndexAtColumn(a.buf.Lines()[line], col), line)
}

func (a *App) scrollAt(x, delta int) {
	if a.layout.Mode() == LayoutSplit && x > a.layout.DividerColumn() {
		a.scrollOutput(delta)
		return
	}
	if !a.codeVisible() {
		a.scrollOutput(delta)
		return
	}
	if delta < 0 {
		a.buf.MoveUp(-delta)
	} else {
		a.buf.MoveDown(delta)
	}
}

func (a *App) scrollOutput(delta int) {
	a.outputScroll += delta
	if a.outputScroll < 0 {
		a.outputScroll = 0
	}
}

// codeChanged pushes the buffer into the workspace and persists it.
func (a *App) codeChanged() {
	a.ws.SetCode(a.buf.Text())
	a.save()
	a.syncPreview()
}

func (a *App) save() {
	if err := a.store.Save(a.ws); err != nil {
		a.logger.Warn("workspace save failed", zap.String("path", a.store.Path()), zap.Error(err))
	}
}

// syncPreview re-renders the live preview for locally rendered languages.
func (a *App) syncPreview() {
	if a.preview == nil {
		return
	}
	t, ok := LookupTemplate(a.ws.Language)
	if !ok || t.Strategy != LocalRender {
		return
	}
	doc, err := DocumentFor(a.ws.Language, a.ws.ActiveFile().Code)
	if err != nil {
		a.logger.Debug("preview render skipped", zap.Error(err))
		return
	}
	a.preview.Update(doc)
}

// runOrPreview dispatches the current file. Remote runs happen off the event
// loop; the result comes back as a runDoneEvent.
func (a *App) runOrPreview() {
	lang := a.ws.Language
	code := a.buf.Text()

	if t, ok := LookupTemplate(lang); ok && t.Strategy == LocalRender {
		if _, err := a.dispatcher.Dispatch(a.ctx, lang, code); err != nil {
			a.showError(Message(err))
			return
		}
		a.statusMessage("Preview opened in browser")
		return
	}
	if !a.dispatcher.NeedsNetwork(lang, code) {
		out, err := a.dispatcher.Dispatch(a.ctx, lang, code)
		a.finishRun(out, err)
		return
	}
	if a.running || a.dispatcher.Running() {
		a.setOutput(OutputInFlight, true)
		a.layout.SetTab(TabOutput)
		return
	}

	a.running = true
	a.statusMessage("Running " + string(lang) + " code...")
	gen := a.runGen
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		out, err := a.dispatcher.Dispatch(a.ctx, lang, code)
		ev := &runDoneEvent{gen: gen, outcome: out, err: err}
		ev.SetEventNow()
		if perr := a.post(ev); perr != nil {
			a.logger.Warn("run result dropped", zap.Error(perr))
		}
	}()
}

// finishRun renders a run result and returns the UI to ready.
// Every outcome, including transport failures, shows the output tab.
func (a *App) finishRun(out Outcome, err error) {
	a.running = false
	if err != nil {
		a.setOutput(Message(err), true)
	} else {
		a.setOutput(out.Output, out.Result.Stderr != "")
		a.statusMessage("Run finished")
	}
	a.layout.SetTab(TabOutput)
}

func (a *App) setOutput(text string, isErr bool) {
	a.output = text
	a.outputIsErr = isErr
	a.outputScroll = 0
}

// changeLanguage replaces the file with the starter for lang.
func (a *App) changeLanguage(lang Language) {
	if err := a.ws.SetLanguage(lang); err != nil {
		a.showError(err.Error())
		return
	}
	a.buf.SetText(a.ws.ActiveFile().Code)
	a.dropRun()
	a.setOutput(OutputReady, false)
	a.save()
	a.syncPreview()
	t, _ := LookupTemplate(lang)
	a.statusMessage("Language: " + t.Name)
}

func (a *App) promptLanguage() {
	names := make([]string, 0, len(languageOrder))
	for _, l := range Languages() {
		names = append(names, string(l))
	}
	a.promptShow("Language ("+strings.Join(names, ", ")+")", func(input string) {
		if strings.TrimSpace(input) == "" {
			return
		}
		lang, err := ParseLanguage(input)
		if err != nil {
			a.showError(err.Error())
			return
		}
		a.changeLanguage(lang)
	})
}

// exportFile writes the active file into the export directory.
func (a *App) exportFile() {
	path, err := a.exporter.Export(a.ws.ActiveFile())
	if err != nil {
		a.logger.Warn("export failed", zap.Error(err))
		a.showError("Unable to save the file: " + err.Error())
		return
	}
	a.buf.MarkClean()
	a.statusMessage("Saved " + path)
}

// resetWorkspace clears persisted state and returns every piece of UI state
// to its default. Nothing is written back until the next change.
func (a *App) resetWorkspace() {
	ws, err := a.store.Reset()
	if err != nil {
		a.logger.Warn("workspace reset failed", zap.Error(err))
	}
	a.ws = ws
	a.buf.SetText(ws.ActiveFile().Code)
	a.layout.SetRatio(ws.EditorWidth)
	a.layout.SetTab(TabCode)
	a.dropRun()
	a.setOutput(OutputReady, false)
	a.syncPreview()
	a.statusMessage("Workspace reset")
}

// dropRun detaches the UI from an outstanding run. The run itself is not
// cancelled; its result is ignored when it arrives.
func (a *App) dropRun() {
	a.runGen++
	a.running = false
}

func (a *App) toggleTab() {
	if a.layout.Mode() != LayoutTabbed {
		a.statusMessage("Tabs are used in narrow terminals only")
		return
	}
	a.layout.ToggleTab()
}

func (a *App) openLivePreview() {
	if a.preview == nil || a.preview.URL() == "" {
		a.showError("Live preview is disabled")
		return
	}
	if err := a.browser.OpenURL(a.preview.URL()); err != nil {
		a.showError("Unable to open preview: " + err.Error())
		return
	}
	a.statusMessage("Live preview: " + a.preview.URL())
}

// pasteFromClipboard reads text from the system clipboard and inserts it at the cursor position.
// pasteFromClipboard читает текст из системного буфера обмена и вставляет его в позицию курсора.
func (a *App) pasteFromClipboard() bool {
	text, err := clipboard.ReadAll()
	if err != nil {
		a.showError("Insert error: " + err.Error())
		return false
	}
	if text == "" {
		return false
	}
	a.buf.InsertText(text)
	return true
}

func (a *App) copyOutput() {
	if err := clipboard.WriteAll(a.output); err != nil {
		a.showError("Copy error clipboard: " + err.Error())
		return
	}
	a.statusMessage("Output copied")
}

// promptShow shows a prompt to the user.
// promptShow показывает пользователю запрос.
func (a *App) promptShow(label string, cb func(string)) {
	a.prompt = &Prompt{Label: label, Callback: cb}
}

func (a *App) handlePromptInput(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		a.prompt = nil
		a.statusMessage("Cancelled")
	case tcell.KeyEnter:
		val, cb := a.prompt.Value, a.prompt.Callback
		a.prompt = nil
		if cb != nil {
			cb(val)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(a.prompt.Value); len(runes) > 0 {
			a.prompt.Value = string(runes[:len(runes)-1])
		}
	case tcell.KeyRune:
		a.prompt.Value += string(ev.Rune())
	}
}

// statusMessage displays a message on the status bar.
// statusMessage отображает сообщение в строке состояния.
func (a *App) statusMessage(msg string) {
	a.statusMsg = msg
	a.statusIsError = false
	a.statusTime = a.now()
}

// showError displays an error message in the status bar with red background.
// showError отображает сообщение об ошибке в строке состояния с красным фоном.
func (a *App) showError(msg string) {
	a.statusMsg = msg
	a.statusIsError = true
	a.statusTime = a.now()
}

func (a *App) currentStatus() (string, bool) {
	if a.statusMsg == "" || a.now().Sub(a.statusTime) > statusTTL {
		return "", false
	}
	return a.statusMsg, a.statusIsError
}

func (a *App) stateLabel() string {
	if a.running {
		return "Running…"
	}
	return "Ready"
}

func (a *App) actionLabel() string {
	t, ok := LookupTemplate(a.ws.Language)
	if ok && t.Strategy == LocalRender {
		return "Preview"
	}
	return "Run"
}

func (a *App) title() string {
	t, _ := LookupTemplate(a.ws.Language)
	name := a.ws.ActiveFile().Name
	if a.buf.Dirty() {
		name += " *"
	}
	return fmt.Sprintf(" ◆ CodeDeck  [%s]  %s", t.Name, name)
}
