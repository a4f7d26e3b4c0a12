package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/game"
)

// toastTTL is how long a notification stays on screen.
const toastTTL = 2 * time.Second

// GameModel is the Bubble Tea model for the countdown game screen.
type GameModel struct {
	ctx      context.Context
	ctrl     *game.Controller
	slot     *ads.Slot
	box      *mailbox
	logger   *log.Logger
	keys     GameKeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	tickRate int
	gen      int

	toast      string
	toastUntil time.Time
	watchInfo  ads.AdInfo
	watchStart time.Time
	now        time.Time

	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewGameModel creates the game screen for one visit. gen tags its tick chain.
func NewGameModel(ctx context.Context, ctrl *game.Controller, slot *ads.Slot, box *mailbox, tickRate, gen, width, height int, logger *log.Logger) GameModel {
	h := help.New()
	h.Width = width

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
	)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = progressWidth(width)

	return GameModel{
		ctx:      ctx,
		ctrl:     ctrl,
		slot:     slot,
		box:      box,
		logger:   logger,
		keys:     DefaultGameKeyMap(),
		help:     h,
		spinner:  sp,
		progress: bar,
		tickRate: tickRate,
		gen:      gen,
		width:    width,
		height:   height,
		now:      time.Now(),
	}
}

// Init starts a round.
func (m GameModel) Init() tea.Cmd {
	m.ctrl.Start(time.Now())
	return tea.Batch(tickCmd(m.tickRate, m.gen), m.spinner.Tick)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = progressWidth(msg.Width)
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.now = msg.Time
		m.ctrl.Tick(m.now)
		if !m.toastUntil.IsZero() && !m.now.Before(m.toastUntil) {
			m.toast = ""
			m.toastUntil = time.Time{}
		}
		return m, tickCmd(m.tickRate, m.gen)

	case toastMsg:
		m.showToast(msg.text)
		return m, nil

	case adEventMsg:
		m.ctrl.HandleAdEvent(msg.event)
		m.showToast(describeEvent(msg.event))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	now := time.Now()

	switch action {
	case game.ActionNone:
		return m, nil

	case game.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case game.ActionBack:
		// The ad closes without reward; its Closed event still reaches the controller.
		m.ctrl.SkipVideo()
		m.backToMenu = true
		return m, nil

	case game.ActionWatch:
		info, loaded := m.slot.Loaded()
		m.ctrl.Apply(m.ctx, action, now, m.box.deliver)
		if loaded && m.ctrl.State().Watching {
			m.watchInfo = info
			m.watchStart = now
			m.logger.Info("showing ad", "response_id", info.ResponseID, "title", info.Title)
		}
		return m, nil
	}

	if !m.ctrl.Apply(m.ctx, action, now, m.box.deliver) {
		m.logger.Debug("action ignored", "action", action)
	}
	return m, nil
}

func (m *GameModel) showToast(text string) {
	if text == "" {
		return
	}
	m.toast = text
	m.toastUntil = time.Now().Add(toastTTL)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	st := m.ctrl.State()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  R E W A R D E D   A R C A D E  "), m.width))
	b.WriteString("\n\n")

	var status string
	switch {
	case st.GameOver:
		status = "The game has ended!"
	case st.Paused:
		status = fmt.Sprintf("Paused - seconds remaining: %d", st.Remaining)
	default:
		status = fmt.Sprintf("seconds remaining: %d", st.Remaining)
	}
	panel := panelStyle.Render(status + "\n\n" + coinStyle.Render(fmt.Sprintf("Coins: %d", st.Coins)))
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel))
	b.WriteString("\n")

	if buttons := m.renderButtons(st); buttons != "" {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, buttons))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if st.Watching {
		b.WriteString(m.renderPlayback())
	} else {
		b.WriteString(centerText(m.renderAdStatus(), m.width))
	}
	b.WriteString("\n\n")

	if m.toast != "" {
		b.WriteString(centerText(toastStyle.Render(m.toast), m.width))
	}
	b.WriteString("\n\n")

	keys := m.keys
	keys.sync(st)
	b.WriteString(centerText(m.help.View(keys), m.width))

	return b.String()
}

func (m GameModel) renderButtons(st game.State) string {
	var buttons []string
	if st.RetryVisible {
		buttons = append(buttons, buttonStyle.Render("Retry (r)"))
	}
	if st.ShowVideoVisible {
		buttons = append(buttons, buttonStyle.Render("Watch video (v)"))
	}
	if len(buttons) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m GameModel) renderAdStatus() string {
	switch m.slot.State() {
	case ads.StateLoading:
		return m.spinner.View() + dimStyle.Render(" Loading ad...")
	case ads.StateLoaded:
		info, _ := m.slot.Loaded()
		if !m.slot.CanShow() {
			return dimStyle.Render("Ad expired")
		}
		return dimStyle.Render(fmt.Sprintf("Ad ready: %s", info.Title))
	default:
		return dimStyle.Render("No ad loaded")
	}
}

func (m GameModel) renderPlayback() string {
	info := m.watchInfo
	elapsed := m.now.Sub(m.watchStart)
	pct := 0.0
	left := time.Duration(0)
	if info.Duration > 0 {
		pct = min(max(float64(elapsed)/float64(info.Duration), 0), 1)
		left = max(info.Duration-elapsed, 0)
	}

	var b strings.Builder
	header := fmt.Sprintf("%s - %s", info.Title, info.Advertiser)
	b.WriteString(centerText(selectedStyle.Render(header), m.width))
	b.WriteString("\n")
	bar := fmt.Sprintf("%s %2ds", m.progress.ViewAs(pct), int(left.Round(time.Second)/time.Second))
	b.WriteString(centerText(bar, m.width))
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

func describeEvent(ev ads.Event) string {
	switch ev := ev.(type) {
	case ads.Opened:
		return "Ad opened"
	case ads.EarnedReward:
		return fmt.Sprintf("You earned %d %s", ev.Reward.Amount, ev.Reward.Type)
	case ads.Closed:
		return "Ad closed"
	case ads.Failed:
		return fmt.Sprintf("Ad failed to show: %v", ev.Err)
	}
	return ""
}

func progressWidth(screenW int) int {
	w := screenW - 20
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}
