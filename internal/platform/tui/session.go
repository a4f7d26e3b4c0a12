package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/game"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

// SessionConfig holds everything one player session needs.
type SessionConfig struct {
	Registry    *registry.Registry
	PlacementID string
	Game        game.Config
	TickRate    int
	Logger      *log.Logger
	Username    string
	Width       int
	Height      int
}

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenPlacements
)

// SessionModel manages the full session flow: menu -> game or placements -> menu.
// It is the top-level model for both local play and SSH sessions.
type SessionModel struct {
	cfg    SessionConfig
	ctx    context.Context
	cancel context.CancelFunc
	box    *mailbox
	slot   *ads.Slot
	ctrl   *game.Controller
	logger *log.Logger

	screen     screen
	gen        int
	menu       MenuModel
	gameModel  GameModel
	placements PlacementsModel
	quitting   bool
}

// NewSessionModel creates a session bound to parent. Ending parent, or
// quitting, cancels any ad still playing and stops callback delivery.
func NewSessionModel(parent context.Context, cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = 80, 24
	}

	ctx, cancel := context.WithCancel(parent)
	box := newMailbox(ctx)
	slot := cfg.Registry.Get(cfg.PlacementID)
	logger := cfg.Logger
	if cfg.Username != "" {
		logger = logger.With("user", cfg.Username)
	}

	return SessionModel{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		box:    box,
		slot:   slot,
		ctrl:   game.New(slot, box, cfg.Game, game.WithLogger(logger)),
		logger: logger,
		menu:   NewMenuModel(cfg.Width, cfg.Height, 0, cfg.Username),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.box.wait(), m.menu.Init())
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cfg.Width = msg.Width
		m.cfg.Height = msg.Height

	case toastMsg, adEventMsg:
		// Re-arm delivery before handling the message.
		rearm := m.box.wait()
		if m.screen == screenGame {
			next, cmd := m.updateGame(msg)
			return next, tea.Batch(rearm, cmd)
		}
		if ev, ok := msg.(adEventMsg); ok {
			m.ctrl.HandleAdEvent(ev.event)
		}
		return m, rearm
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenPlacements:
		return m.updatePlacements(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menuModel, ok := next.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		return m.quit()
	}

	switch m.menu.Selected() {
	case ChoicePlay:
		m.gen++
		m.gameModel = NewGameModel(m.ctx, m.ctrl, m.slot, m.box, m.cfg.TickRate, m.gen, m.cfg.Width, m.cfg.Height, m.logger)
		m.screen = screenGame
		m.logger.Debug("entering game", "placement", m.cfg.PlacementID)
		return m, m.gameModel.Init()

	case ChoicePlacements:
		m.gen++
		m.placements = NewPlacementsModel(m.cfg.Registry, m.gen, m.cfg.Width, m.cfg.Height)
		m.screen = screenPlacements
		return m, m.placements.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.gameModel.Update(msg)
	if gameModel, ok := next.(GameModel); ok {
		m.gameModel = gameModel
	}

	if m.gameModel.IsQuitting() {
		return m.quit()
	}

	if m.gameModel.BackToMenu() {
		m.toMenu()
		return m, nil
	}

	return m, cmd
}

// updatePlacements handles updates when on the placements screen.
func (m SessionModel) updatePlacements(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.placements.Update(msg)
	if pm, ok := next.(PlacementsModel); ok {
		m.placements = pm
	}

	if m.placements.IsQuitting() {
		return m.quit()
	}

	if m.placements.IsGoingBack() {
		m.toMenu()
		return m, nil
	}

	return m, cmd
}

func (m *SessionModel) toMenu() {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height, m.ctrl.State().Coins, m.cfg.Username)
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.logger.Info("session over", "coins", m.ctrl.State().Coins)
	m.cancel()
	return m, tea.Quit
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenPlacements:
		return m.placements.View()
	default:
		return m.menu.View()
	}
}

// Coins returns the balance earned in this session.
func (m SessionModel) Coins() int {
	return m.ctrl.State().Coins
}

// Close ends the session context. Safe to call more than once.
func (m SessionModel) Close() {
	m.cancel()
}
