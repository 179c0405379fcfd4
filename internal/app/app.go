package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-flowchart/internal/codeview"
	"github.com/pstuifzand/tui-flowchart/internal/config"
	"github.com/pstuifzand/tui-flowchart/internal/controller"
	"github.com/pstuifzand/tui-flowchart/internal/editor"
	"github.com/pstuifzand/tui-flowchart/internal/engine"
	"github.com/pstuifzand/tui-flowchart/internal/history"
	"github.com/pstuifzand/tui-flowchart/internal/model"
	"github.com/pstuifzand/tui-flowchart/internal/socket"
	"github.com/pstuifzand/tui-flowchart/internal/storage"
	"github.com/pstuifzand/tui-flowchart/internal/theme"
	"github.com/pstuifzand/tui-flowchart/internal/ui"
)

const (
	autoSaveDelay    = 5 * time.Second
	doubleClickDelay = 400 * time.Millisecond
	backupsKept      = 50
	commandHistory   = "commands.toml"
)

// App is the main application controller
type App struct {
	screen *ui.Screen
	cfg    *config.Config
	store  *storage.JSONStore
	record *storage.Record

	ctrl        *controller.Controller
	bridge      *editor.Bridge
	canvas      *ui.Canvas
	panel       *ui.PropertyPanel
	menu        *ui.ContextMenuWidget
	code        *codeview.View
	codePanel   *ui.CodePanel
	importPanel *ui.CodePanel
	labelEditor *ui.Editor
	codeErr     error

	search         *ui.Search
	help           *ui.HelpScreen
	splash         *ui.SplashScreen
	command        *ui.CommandMode
	messages       *ui.MessageLogger
	backupSelector *ui.BackupSelectorWidget
	diffView       *ui.DiffViewWidget

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding
	pendingKey         rune

	// Engine the app listens to for edge selection
	watched      *engine.Engine
	selectedEdge string
	connectFrom  string
	showPanel    bool

	mouseDown     bool
	pointerActive bool
	lastClick     time.Time
	lastClickX    int
	lastClickY    int

	// Work finished by background goroutines, run on the event loop
	tasks chan func()
	// ctx ends when the app closes so late deliveries are dropped
	ctx    context.Context
	cancel context.CancelFunc

	socketServer *socket.Server
	backups      *storage.BackupManager
	sessionID    string
	lastSaved    model.FlowchartData
	dirty        bool
	autoSaveTime time.Time
	quit         bool
	debugMode    bool
}

// NewApp loads the config and theme, opens the terminal and loads filePath
func NewApp(filePath string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg, _ = config.LoadFromFile("")
	}

	screen, err := ui.NewScreen(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	a, err := newApp(screen, cfg, filePath)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return a, nil
}

// newApp builds the application on an initialised screen
func newApp(screen *ui.Screen, cfg *config.Config, filePath string) (*App, error) {
	a := &App{
		screen:         screen,
		cfg:            cfg,
		canvas:         ui.NewCanvas(),
		help:           ui.NewHelpScreen(),
		splash:         ui.NewSplashScreen(),
		messages:       ui.NewMessageLogger(100),
		backupSelector: ui.NewBackupSelectorWidget(),
		diffView:       ui.NewDiffViewWidget(),
		codePanel:      ui.NewCodePanel("Code", "Ctrl+S: apply | Esc: back to canvas"),
		importPanel:    ui.NewCodePanel("Import", "Paste flowchart JSON | Ctrl+V: paste | Ctrl+S: import | Esc: cancel"),
		showPanel:      true,
		tasks:          make(chan func(), 16),
		sessionID:      generateSessionID(),
		autoSaveTime:   time.Now(),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	if mgr, err := history.NewManager(50); err == nil {
		a.search = ui.NewSearchWithHistory(mgr)
		a.command = ui.NewCommandModeWithHistory(":", mgr, commandHistory)
	} else {
		log.Printf("Command history unavailable: %v", err)
		a.search = ui.NewSearch()
		a.command = ui.NewCommandMode(":")
	}

	if mgr, err := storage.NewBackupManager(); err == nil {
		a.backups = mgr
	} else {
		log.Printf("Backups disabled: %v", err)
	}

	a.ctrl = controller.New(controller.Options{
		Container: a.canvas,
		EngineOptions: engine.Options{
			HistoryLimit: cfg.HistoryLimitValue(),
			ZoomStep:     cfg.ZoomStepValue(),
		},
		OnChange: a.onChange,
		OnSelect: a.onSelect,
		Jitter:   cfg.InsertJitterValue(),
	})
	a.bridge = editor.New(a.ctrl, cfg.MaxAttachmentBytes())
	a.panel = ui.NewPropertyPanel(a.bridge)
	a.code = codeview.NewView(a.ctrl)

	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()
	a.help.SetKeybindings(a.helpEntries())

	if err := a.openFile(filePath); err != nil {
		return nil, err
	}

	a.layout()
	if err := a.ctrl.Mount(); err != nil && !errors.Is(err, engine.ErrContainerNotReady) {
		return nil, fmt.Errorf("failed to start editor: %w", err)
	}
	// openFile already reported what Validate found
	if err := a.ctrl.LoadError(); err != nil {
		if msg, ok := a.messages.Current(); !ok || !msg.Error {
			a.SetError("Loaded with problems: " + err.Error())
		}
	}
	a.watchEngine()
	return a, nil
}

// openFile loads the record at filePath into the controller
func (a *App) openFile(filePath string) error {
	if filePath == "" {
		a.store = nil
		a.record = storage.NewRecord("Untitled")
	} else {
		a.store = storage.NewJSONStore(filePath)
		rec, err := a.store.Load()
		if err != nil {
			return fmt.Errorf("failed to load flowchart: %w", err)
		}
		a.record = rec
	}

	d, err := a.record.Diagram()
	if err != nil {
		return fmt.Errorf("failed to decode flowchart: %w", err)
	}
	a.lastSaved = d.Clone()
	loadErr := d.Validate()
	if err := a.ctrl.SetData(&d); err != nil {
		loadErr = err
	}
	a.dirty = false
	if len(d.Nodes) == 0 {
		a.splash.Show()
	} else {
		a.splash.Hide()
	}
	if a.store != nil && a.store.ReadOnly {
		a.SetStatus("Opened backup read-only")
	}
	if loadErr != nil {
		a.SetError("Loaded with problems: " + loadErr.Error())
	}
	return nil
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	a.screen.EnableMouse()
	a.startSocket()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			event := a.screen.PollEvent()
			eventChan <- event
			if event == nil {
				break
			}
		}
	}()

	var socketMessages <-chan socket.Message
	if a.socketServer != nil {
		socketMessages = a.socketServer.Messages()
	}

	ticker := time.NewTicker(50 * time.Millisecond) // ~20 FPS
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev := <-eventChan:
			if ev == nil {
				a.quit = true
				break
			}
			a.handleRawEvent(ev)
		case msg := <-socketMessages:
			a.handleSocketMessage(msg)
		case task := <-a.tasks:
			task()
		case <-ticker.C:
			a.render()
			a.maybeAutoSave()
		}
	}

	return nil
}

func (a *App) startSocket() {
	if !a.cfg.SocketEnabled() {
		return
	}
	server, err := socket.NewServer(os.Getpid())
	if err != nil {
		log.Printf("Failed to start socket server: %v", err)
		return
	}
	server.Start()
	a.socketServer = server
	log.Printf("Socket server listening on %s", server.SocketPath())
}

func (a *App) maybeAutoSave() {
	if !a.dirty || a.store == nil || a.store.ReadOnly || time.Since(a.autoSaveTime) < autoSaveDelay {
		return
	}
	if err := a.Save(); err != nil {
		a.SetError("Failed to save: " + err.Error())
		a.autoSaveTime = time.Now()
		return
	}
	a.SetStatus("Saved")
}

// Close stops the socket server, the engine and the screen
func (a *App) Close() error {
	if a.ctx.Err() != nil {
		return nil
	}
	a.cancel()
	if a.socketServer != nil {
		a.socketServer.Stop()
		a.socketServer = nil
	}
	a.ctrl.Dispose()
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// deliver queues fn to run on the event loop. After Close fn is dropped.
func (a *App) deliver(fn func()) {
	select {
	case a.tasks <- fn:
	case <-a.ctx.Done():
	}
}

// onChange receives every diagram the controller emits
func (a *App) onChange(d model.FlowchartData) {
	a.dirty = !model.Equal(d, a.lastSaved)
	if a.dirty {
		a.autoSaveTime = time.Now()
	}
	a.search.SetDiagram(d)
	a.code.Sync(d)
	if a.ctrl.Mode() == controller.ViewCode && a.code.CodeError == "" && a.codePanel.Text() != a.code.Code {
		a.codePanel.SetText(a.code.Code)
	}
	a.bridge.Refresh()
	if len(d.Nodes) > 0 {
		a.splash.Hide()
	}
}

// onSelect keeps the property panel on the selected node
func (a *App) onSelect(id string) {
	a.bridge.SelectionChanged(id)
	a.panel.Reset()
	if id != "" {
		a.selectedEdge = ""
	}
}

// watchEngine subscribes to edge clicks once the engine exists
func (a *App) watchEngine() {
	eng := a.ctrl.Engine()
	if eng == nil || eng == a.watched {
		return
	}
	a.watched = eng
	a.menu = ui.NewContextMenuWidget(a.ctrl.ContextMenu())
	eng.On(engine.EventEdgeClick, func(ev engine.Event) {
		a.ctrl.ClearSelection()
		a.selectedEdge = ev.ID
	})
	eng.On(engine.EventBlankClick, func(engine.Event) { a.selectedEdge = "" })
	eng.On(engine.EventEdgeDelete, func(ev engine.Event) {
		if ev.ID == a.selectedEdge {
			a.selectedEdge = ""
		}
	})
}

// layout places the canvas and the panel on the screen
func (a *App) layout() (canvas, panel ui.Rect) {
	width, height := a.screen.Size()
	bodyH := max(0, height-3)

	canvas = ui.Rect{X: 0, Y: 1, W: width, H: bodyH}
	if a.showPanel && width > ui.PanelWidth+20 {
		canvas.W = width - ui.PanelWidth
		panel = ui.Rect{X: canvas.W, Y: 1, W: ui.PanelWidth, H: bodyH}
	}
	if a.canvas.SetRect(canvas) {
		a.ctrl.NotifyResize()
		a.watchEngine()
	}
	return canvas, panel
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()

	canvasRect, panelRect := a.layout()
	width, height := a.screen.Size()
	eng := a.ctrl.Engine()

	a.renderHeader(width)

	if a.ctrl.Mode() == controller.ViewCode {
		a.codePanel.Render(a.screen, canvasRect, a.codeParseError())
	} else {
		a.canvas.Render(a.screen, eng, ui.CanvasState{
			Selected:     a.ctrl.Selected(),
			SelectedEdge: a.selectedEdge,
			ConnectFrom:  a.connectFrom,
			LabelEditor:  a.labelEditor,
		})
		if tip := a.ctrl.Tooltip(); tip.Visible {
			a.canvas.RenderTooltip(a.screen, tip.Text, engine.Point{X: tip.X, Y: tip.Y})
		}
		if a.splash.IsVisible() {
			a.splash.Render(a.screen, canvasRect)
		}
		if a.menu != nil {
			a.menu.Render(a.screen, a.canvas)
		}
	}

	if panelRect.W > 0 {
		a.panel.Render(a.screen, panelRect)
	}

	if a.importPanel.IsActive() {
		r := ui.Rect{X: 4, Y: 3, W: max(0, width-8), H: max(0, height-7)}
		a.importPanel.Render(a.screen, r, nil)
	}

	switch {
	case a.search.IsActive():
		a.search.Render(a.screen, height-2)
	case a.command.IsActive():
		a.command.Render(a.screen, height-2)
	}

	a.renderStatus(width, height)

	a.backupSelector.Render(a.screen)
	a.diffView.Render(a.screen)
	a.help.Render(a.screen)

	a.screen.Show()
}

func (a *App) renderHeader(width int) {
	title := a.record.Title
	if a.store != nil {
		title += " [" + filepath.Base(a.store.FilePath) + "]"
	}
	if a.store != nil && a.store.ReadOnly {
		title += " (read-only)"
	}
	zoom := 100.0
	if eng := a.ctrl.Engine(); eng != nil {
		zoom = eng.Transform().Scale * 100
	}
	header := fmt.Sprintf(" %s  %.0f%% ", title, zoom)
	a.screen.DrawStringLimited(0, 0, header, width, a.screen.PanelTitleStyle())
}

func (a *App) renderStatus(width, height int) {
	mode := " CANVAS "
	switch {
	case a.ctrl.Mode() == controller.ViewCode:
		mode = " CODE "
	case a.importPanel.IsActive():
		mode = " IMPORT "
	case a.connectFrom != "":
		mode = " CONNECT "
	case a.labelEditor != nil || a.panel.IsEditing():
		mode = " INSERT "
	}
	x := a.screen.DrawString(0, height-1, mode, a.screen.StatusModeStyle())

	d := a.ctrl.Snapshot()
	right := fmt.Sprintf("%d nodes %d connections", len(d.Nodes), len(d.Connections))
	if a.dirty {
		right = "(modified) " + right
	}
	if a.pendingKey != 0 {
		right = string(a.pendingKey) + "- " + right
	}
	rightX := width - ui.StringWidth(right) - 1

	if msg, ok := a.messages.Current(); ok {
		style := a.screen.StatusMessageStyle()
		if msg.Error {
			style = a.screen.StatusModifiedStyle()
		}
		a.screen.DrawStringLimited(x+1, height-1, msg.Text, rightX-x-2, style)
	}
	a.screen.DrawString(rightX, height-1, right, a.screen.StatusMessageStyle())
}

func (a *App) codeParseError() error {
	if a.code.CodeError == "" {
		return nil
	}
	return a.codeErr
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.layout()
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

// handleKey routes a key to the widget that owns the keyboard
func (a *App) handleKey(ev *tcell.EventKey) {
	switch {
	case a.help.IsVisible():
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Rune() == '?' || ev.Rune() == 'q':
			a.help.Toggle()
		case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
			a.help.Scroll(1)
		case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
			a.help.Scroll(-1)
		}
	case a.diffView.IsVisible():
		a.diffView.HandleKeyEvent(ev)
	case a.backupSelector.IsVisible():
		a.backupSelector.HandleKeyEvent(ev)
	case a.command.IsActive():
		if cmd, done := a.command.HandleKey(ev); done {
			a.handleCommand(cmd)
		}
	case a.search.IsActive():
		if a.search.HandleKey(ev) {
			a.selectCurrentMatch()
		}
	case a.importPanel.IsActive():
		a.handleImportKey(ev)
	case a.labelEditor != nil:
		a.handleLabelKey(ev)
	case a.panel.IsEditing():
		a.panel.HandleKey(ev)
		if msg := a.panel.Error(); msg != "" {
			a.SetError(msg)
		}
	case a.menu != nil && a.menu.IsOpen():
		a.menu.HandleKey(ev)
	case a.ctrl.Mode() == controller.ViewCode:
		a.handleCodeKey(ev)
	default:
		a.handleKeypress(ev)
	}
}

func (a *App) handleLabelKey(ev *tcell.EventKey) {
	if a.labelEditor.HandleKey(ev) {
		return
	}
	eng := a.ctrl.Engine()
	text := a.labelEditor.Stop()
	a.labelEditor = nil
	if eng == nil {
		return
	}
	if ev.Key() == tcell.KeyEscape {
		eng.CancelTextEdit()
		return
	}
	if err := eng.CommitTextEdit(text); err != nil {
		a.SetError("Failed to set label: " + err.Error())
	}
}

func (a *App) handleCodeKey(ev *tcell.EventKey) {
	if !a.codePanel.IsActive() {
		a.codePanel.Open(a.code.Code)
	}
	if ev.Key() == tcell.KeyCtrlV {
		a.pasteInto(a.codePanel)
		return
	}
	if a.codePanel.HandleKey(ev) {
		return
	}
	switch ev.Key() {
	case tcell.KeyCtrlS:
		a.applyCode()
	case tcell.KeyEscape:
		a.closeCodeView()
	}
}

func (a *App) handleImportKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlV {
		a.pasteInto(a.importPanel)
		return
	}
	if a.importPanel.HandleKey(ev) {
		return
	}
	switch ev.Key() {
	case tcell.KeyCtrlS:
		a.importDiagram(a.importPanel.Text())
	case tcell.KeyEscape:
		a.importPanel.Close()
		a.SetStatus("Import cancelled")
	}
}

// handleMouse feeds pointer events to the engine in screen space
func (a *App) handleMouse(ev *tcell.EventMouse) {
	if a.help.IsVisible() || a.diffView.IsVisible() || a.backupSelector.IsVisible() ||
		a.importPanel.IsActive() || a.ctrl.Mode() == controller.ViewCode {
		return
	}
	eng := a.ctrl.Engine()
	if eng == nil {
		return
	}

	x, y := ev.Position()
	buttons := ev.Buttons()

	if a.menu != nil && a.menu.IsOpen() && buttons&tcell.Button1 != 0 && !a.mouseDown {
		a.mouseDown = true
		a.menu.HandleClick(x, y)
		return
	}

	p, inside := a.canvas.CellToPoint(x, y)
	if !inside && !a.mouseDown {
		return
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		a.ctrl.ZoomIn()
	case buttons&tcell.WheelDown != 0:
		a.ctrl.ZoomOut()
	case buttons&tcell.Button2 != 0:
		if !a.mouseDown {
			a.mouseDown = true
			a.splash.Hide()
			eng.ContextMenuAt(p)
		}
	case buttons&tcell.Button1 != 0:
		if a.mouseDown {
			if a.pointerActive {
				eng.PointerMove(p)
			}
			return
		}
		a.mouseDown = true
		a.splash.Hide()
		if a.labelEditor != nil {
			a.handleLabelKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
		}
		if time.Since(a.lastClick) < doubleClickDelay && x == a.lastClickX && y == a.lastClickY {
			a.pointerActive = false
			a.lastClick = time.Time{}
			a.doubleClick(p)
			return
		}
		a.pointerActive = true
		eng.PointerDown(p)
	default:
		if !a.mouseDown {
			eng.PointerMove(p)
			return
		}
		a.mouseDown = false
		if !a.pointerActive {
			return
		}
		a.pointerActive = false
		eng.PointerUp(p)
		a.lastClick = time.Now()
		a.lastClickX, a.lastClickY = x, y
		a.afterClick()
	}
}

// doubleClick starts a label edit on connections. Node double clicks are
// swallowed by the controller.
func (a *App) doubleClick(p engine.Point) {
	eng := a.ctrl.Engine()
	eng.DoubleClick(p)
	if eng.EditingKind() != engine.ElementEdge {
		return
	}
	text := ""
	if ed := eng.Edge(eng.EditingID()); ed != nil {
		text = ed.Text
	}
	a.labelEditor = ui.NewEditor(text)
	a.labelEditor.Start()
}

// afterClick finishes a connection when a target node was clicked
func (a *App) afterClick() {
	if a.connectFrom == "" {
		return
	}
	target := a.ctrl.Selected()
	if target == "" || target == a.connectFrom {
		return
	}
	a.finishConnect(target)
}

// Save writes the record and keeps a timestamped backup of it
func (a *App) Save() error {
	if a.store == nil {
		return errors.New("no file name, use :w <file>")
	}
	d := a.ctrl.Snapshot()
	if err := a.record.SetDiagram(d); err != nil {
		return err
	}
	if err := a.store.Save(a.record); err != nil {
		return err
	}
	a.createBackup()
	a.lastSaved = d
	a.dirty = false
	a.autoSaveTime = time.Now()
	log.Printf("Saved %d nodes to %s", len(d.Nodes), a.store.FilePath)
	return nil
}

// SaveAs points the app at a new file and saves it there
func (a *App) SaveAs(path string) error {
	store := storage.NewJSONStore(path)
	if store.ReadOnly {
		return fmt.Errorf("%s is a backup file", path)
	}
	prev, prevTitle := a.store, a.record.Title
	if prev == nil || prevTitle == storage.TitleFromPath(prev.FilePath) {
		a.record.Title = storage.TitleFromPath(path)
	}
	a.store = store
	if err := a.Save(); err != nil {
		a.store = prev
		a.record.Title = prevTitle
		return err
	}
	return nil
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.messages.AddMessage(msg)
}

// SetError shows an error on the status line
func (a *App) SetError(msg string) {
	log.Printf("Error: %s", msg)
	a.messages.AddError(msg)
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}

// handleKeypress handles a single keypress on the canvas
func (a *App) handleKeypress(ev *tcell.EventKey) {
	a.splash.Hide()

	// Debug mode: show key information
	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	if a.pendingKey != 0 {
		prefix := a.pendingKey
		a.pendingKey = 0
		if pkb := a.GetPendingKeyBindingByPrefix(prefix); pkb != nil && ev.Key() == tcell.KeyRune {
			if kb, ok := pkb.Sequences[ev.Rune()]; ok {
				kb.Handler(a)
			}
		}
		return
	}

	onAttachments := a.bridge.Open() && a.panel.Focus() == ui.FieldAttachments

	// Handle special keys first
	switch ev.Key() {
	case tcell.KeyCtrlS:
		if err := a.Save(); err != nil {
			a.SetError("Failed to save: " + err.Error())
		} else {
			a.SetStatus("Saved")
		}
		return
	case tcell.KeyCtrlR:
		if !a.ctrl.Redo() {
			a.SetStatus("Nothing to redo")
		}
		return
	case tcell.KeyCtrlZ:
		a.ctrl.Undo()
		return
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		if onAttachments {
			a.panel.RemoveSelectedAttachment()
			return
		}
		a.deleteSelection()
		return
	case tcell.KeyTab:
		a.panel.NextField()
		return
	case tcell.KeyBacktab:
		a.panel.PrevField()
		return
	case tcell.KeyEnter:
		a.beginPanelEdit()
		return
	case tcell.KeyEscape:
		if a.connectFrom != "" {
			a.connectFrom = ""
			a.SetStatus("Connect cancelled")
			return
		}
		a.ctrl.ClearSelection()
		a.selectedEdge = ""
		return
	case tcell.KeyUp:
		if onAttachments {
			a.panel.SelectAttachment(-1)
			return
		}
		a.pan(0, -panCells/2)
		return
	case tcell.KeyDown:
		if onAttachments {
			a.panel.SelectAttachment(1)
			return
		}
		a.pan(0, panCells/2)
		return
	case tcell.KeyLeft:
		a.pan(-panCells, 0)
		return
	case tcell.KeyRight:
		a.pan(panCells, 0)
		return
	case tcell.KeyRune:
	default:
		return
	}

	// Handle rune (character) keys
	r := ev.Rune()
	if r == 'x' && onAttachments {
		a.panel.RemoveSelectedAttachment()
		return
	}
	if a.IsPendingKeyPrefix(r) {
		a.pendingKey = r
		return
	}
	if kb := a.GetKeybindingByKey(r); kb != nil {
		kb.Handler(a)
	}
}
