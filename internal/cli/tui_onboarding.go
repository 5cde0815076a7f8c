package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

const (
	noticeNoImage       = "No Image Selected"
	noticeImageFailed   = "Could not load that image. Please pick another file."
	noticeEmptyUsername = "Please enter a username."
	noticeProfileFailed = "Could not save your profile. Please try again."
	noticeLoadFailed    = "Could not load your profile."
	noticeResetDone     = "Saved data cleared."
	noticeResetFailed   = "Could not clear saved data. Please try again."
)

// Messages produced by the asynchronous onboarding commands.
type (
	avatarPickedMsg struct {
		payload string
		err     error
	}
	identitySavedMsg struct {
		identity models.Identity
		err      error
	}
	storeResetMsg struct {
		err error
	}
)

const (
	inputUsername = iota
	inputAvatar
)

type onboardingModel struct {
	identity core.IdentityManager
	picker   core.ImagePicker
	events   core.EventLogger

	draft    core.IdentityDraft
	username textinput.Model
	avatar   textinput.Model
	focused  int

	// saving is set while a store or picker call is outstanding; input is
	// ignored until its result arrives.
	saving bool
	notice string

	done     bool
	complete models.Identity
}

func newOnboardingModel(identity core.IdentityManager, picker core.ImagePicker, events core.EventLogger) onboardingModel {
	if picker == nil {
		picker = core.NewFileImagePicker()
	}

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 40
	name.Width = 30
	name.Focus()

	avatar := textinput.New()
	avatar.Placeholder = "Path to an image (optional)"
	avatar.CharLimit = 512
	avatar.Width = 40

	return onboardingModel{identity: identity, picker: picker, events: events, username: name, avatar: avatar}
}

// prefill shows a previously saved identity in the form.
func (m *onboardingModel) prefill(id models.Identity) {
	m.draft.SetUsername(id.Username)
	m.draft.SetAvatar(id.Avatar)
	m.username.SetValue(id.Username)
}

func (m onboardingModel) pickCmd(source string) tea.Cmd {
	picker, events := m.picker, m.events
	return func() tea.Msg {
		payload, err := picker.Pick(context.Background(), source)
		if err != nil && !errors.Is(err, core.ErrPickCancelled) && events != nil {
			_ = events.LogEvent(core.EventAvatarPickFailed, map[string]any{"error": err.Error()})
		}
		return avatarPickedMsg{payload: payload, err: err}
	}
}

func (m onboardingModel) submitCmd(draft core.IdentityDraft) tea.Cmd {
	mgr := m.identity
	return func() tea.Msg {
		id, err := mgr.Submit(context.Background(), draft)
		return identitySavedMsg{identity: id, err: err}
	}
}

func (m onboardingModel) resetCmd() tea.Cmd {
	mgr := m.identity
	return func() tea.Msg {
		return storeResetMsg{err: mgr.Reset(context.Background())}
	}
}

func (m onboardingModel) Update(msg tea.Msg) (onboardingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case avatarPickedMsg:
		m.saving = false
		switch {
		case msg.err == nil:
			m.draft.SetAvatar(msg.payload)
			m.notice = ""
		case errors.Is(msg.err, core.ErrPickCancelled):
			m.notice = noticeNoImage
		default:
			m.notice = noticeImageFailed
		}
		return m, nil

	case identitySavedMsg:
		m.saving = false
		switch {
		case msg.err == nil:
			m.done = true
			m.complete = msg.identity
			m.notice = ""
		case errors.Is(msg.err, core.ErrEmptyUsername):
			m.notice = noticeEmptyUsername
		default:
			m.notice = noticeProfileFailed
		}
		return m, nil

	case storeResetMsg:
		m.saving = false
		if msg.err != nil {
			m.notice = noticeResetFailed
			return m, nil
		}
		m.draft = core.IdentityDraft{}
		m.username.Reset()
		m.avatar.Reset()
		m.notice = noticeResetDone
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return m, m.toggleFocus()
		case "ctrl+r":
			m.saving = true
			return m, m.resetCmd()
		case "enter":
			if m.focused == inputAvatar {
				m.saving = true
				return m, m.pickCmd(m.avatar.Value())
			}
			m.draft.SetUsername(m.username.Value())
			m.saving = true
			return m, m.submitCmd(m.draft)
		}
	}

	var cmd tea.Cmd
	if m.focused == inputUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.avatar, cmd = m.avatar.Update(msg)
	}
	return m, cmd
}

func (m *onboardingModel) toggleFocus() tea.Cmd {
	if m.focused == inputUsername {
		m.focused = inputAvatar
		m.username.Blur()
		return m.avatar.Focus()
	}
	m.focused = inputUsername
	m.avatar.Blur()
	return m.username.Focus()
}

func (m onboardingModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Welcome! Set up your profile"))
	b.WriteString("\n\n")
	b.WriteString("Username\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\nAvatar\n")
	b.WriteString(m.avatar.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(avatarSummary(m.draft.Avatar)))
	b.WriteString("\n")

	if m.saving {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Saving…"))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		style := noticeStyle
		switch m.notice {
		case noticeProfileFailed, noticeLoadFailed, noticeResetFailed, noticeImageFailed:
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}
	return panelStyle.Render(b.String())
}

func (m onboardingModel) help() string {
	return "tab: switch field | enter: pick image / continue | ctrl+r: clear saved data | ctrl+c: quit"
}

// avatarSummary describes a payload without decoding it.
func avatarSummary(payload string) string {
	if payload == "" {
		return noticeNoImage
	}
	mime := "image"
	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		if i := strings.IndexByte(rest, ';'); i > 0 {
			mime = rest[:i]
		}
	}
	return "Selected " + mime
}
