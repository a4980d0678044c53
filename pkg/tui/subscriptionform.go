package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/pkg/searchselect"
	"github.com/clcollins/nowdesk/pkg/snow"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

const (
	subscriptionCreatedMessage = "Subscription created successfully!"
	subscriptionFailedMessage  = "Failed to create subscription. Please try again."
)

type channel struct {
	value string
	label string
}

var channels = []channel{
	{value: "", label: "-- Select Channel --"},
	{value: "email", label: "Email"},
	{value: "sms", label: "SMS"},
}

const (
	subscriptionFocusUser = iota
	subscriptionFocusNotification
	subscriptionFocusChannel
	subscriptionFieldCount
)

type subscriptionForm struct {
	subscriber   Subscriber
	user         picker
	notification picker
	channel      int
	focus        int
	submitting   bool
	message      string
	failed       bool
}

func newSubscriptionForm(users, notifications Searcher, s Subscriber) subscriptionForm {
	f := subscriptionForm{
		subscriber:   s,
		user:         newPicker(userPicker, "User", "Search and select user...", users),
		notification: newPicker(notificationPicker, "Notification", "Search and select notification...", notifications),
	}
	f.user.focused = true
	return f
}

// init issues the initial lookup for both pickers.
func (f *subscriptionForm) init() tea.Cmd {
	return tea.Batch(f.user.mount(), f.notification.mount())
}

func (f subscriptionForm) channelValue() string {
	return channels[f.channel].value
}

// canSubmit reports whether every field holds a value and nothing is in
// flight.
func (f subscriptionForm) canSubmit() bool {
	return !f.submitting &&
		f.user.state.Selected() &&
		f.notification.state.Selected() &&
		f.channelValue() != ""
}

func (f *subscriptionForm) picker(id pickerID) *picker {
	switch id {
	case userPicker:
		return &f.user
	case notificationPicker:
		return &f.notification
	}
	return nil
}

func (f *subscriptionForm) setFocus(i int) {
	f.focus = (i + subscriptionFieldCount) % subscriptionFieldCount
	f.user.blur()
	f.notification.blur()
	switch f.focus {
	case subscriptionFocusUser:
		f.user.focus()
	case subscriptionFocusNotification:
		f.notification.focus()
	}
}

func (f *subscriptionForm) clear() tea.Cmd {
	f.channel = 0
	f.message = ""
	f.failed = false
	return tea.Batch(f.user.reset(), f.notification.reset())
}

func (f *subscriptionForm) submit() tea.Cmd {
	if !f.canSubmit() {
		return nil
	}
	f.submitting = true
	f.message = ""
	sub := snow.Subscription{
		User:         f.user.state.SelectedID,
		Notification: f.notification.state.SelectedID,
		Device:       f.channelValue(),
	}
	log.Debug("tui.subscriptionForm.submit", "user", sub.User, "notification", sub.Notification, "device", sub.Device)
	return createSubscription(f.subscriber, sub)
}

func (f *subscriptionForm) created(msg subscriptionCreatedMsg) tea.Cmd {
	f.submitting = false
	if msg.err != nil {
		f.message = subscriptionFailedMessage
		f.failed = true
		return nil
	}
	cmd := f.clear()
	f.message = subscriptionCreatedMessage
	return cmd
}

func (f *subscriptionForm) candidates(msg gotCandidatesMsg) {
	if p := f.picker(msg.picker); p != nil {
		if !p.resolve(msg) {
			log.Debug("tui.subscriptionForm.candidates", "picker", msg.picker, "stale", msg.tag)
		}
	}
}

func (f *subscriptionForm) update(msg tea.KeyMsg) tea.Cmd {
	if f.submitting {
		return nil
	}

	switch {
	case key.Matches(msg, defaultKeyMap.NextField):
		f.setFocus(f.focus + 1)
		return nil
	case key.Matches(msg, defaultKeyMap.PrevField):
		f.setFocus(f.focus - 1)
		return nil
	case key.Matches(msg, defaultKeyMap.Submit):
		return f.submit()
	case key.Matches(msg, defaultKeyMap.Clear):
		return f.clear()
	}

	switch f.focus {
	case subscriptionFocusUser:
		return f.user.update(msg)
	case subscriptionFocusNotification:
		return f.notification.update(msg)
	case subscriptionFocusChannel:
		switch {
		case key.Matches(msg, defaultKeyMap.Left):
			f.channel = (f.channel + len(channels) - 1) % len(channels)
		case key.Matches(msg, defaultKeyMap.Right):
			f.channel = (f.channel + 1) % len(channels)
		case msg.Type == tea.KeyEnter:
			return f.submit()
		}
	}
	return nil
}

// click routes a pointer press to both pickers. originX, originY is the
// screen cell the form is rendered at.
func (f *subscriptionForm) click(originX, originY, x, y int) {
	user, notification := f.pickerBounds(originX, originY)
	f.user.state.Bounds = user
	f.notification.state.Bounds = notification

	if f.user.click(x, y) {
		f.focus = subscriptionFocusUser
	}
	if f.notification.click(x, y) {
		f.focus = subscriptionFocusNotification
	}
	f.user.focused = f.focus == subscriptionFocusUser
	f.notification.focused = f.focus == subscriptionFocusNotification
}

// Block order of the rendered form; blank entries are spacing.
const (
	subscriptionBlockTitle = iota
	subscriptionBlockMessage
	subscriptionBlockUser
	_
	subscriptionBlockNotification
	_
	subscriptionBlockChannel
	_
	subscriptionBlockButtons
)

func (f subscriptionForm) blocks() []string {
	var msg string
	switch {
	case f.message == "":
		msg = ""
	case f.failed:
		msg = style.Failure.Render(f.message)
	default:
		msg = style.Success.Render(f.message)
	}

	return []string{
		style.Title.Render("Notification Subscriptions") + "\n",
		msg,
		f.user.view(),
		"",
		f.notification.view(),
		"",
		f.channelView(),
		"",
		f.buttonsView(),
	}
}

// pickerBounds returns the screen rectangles the two pickers occupy when
// the form is rendered at originX, originY.
func (f subscriptionForm) pickerBounds(originX, originY int) (user, notification searchselect.Bounds) {
	y := originY
	for i, b := range f.blocks() {
		h := lipgloss.Height(b)
		bounds := searchselect.Bounds{X: originX, Y: y, Width: lipgloss.Width(b), Height: h}
		switch i {
		case subscriptionBlockUser:
			user = bounds
		case subscriptionBlockNotification:
			notification = bounds
		}
		y += h
	}
	return user, notification
}

func (f subscriptionForm) channelView() string {
	return selectorView("Channel *", channels[f.channel].label, f.focus == subscriptionFocusChannel)
}

func (f subscriptionForm) buttonsView() string {
	submit := "[ Submit ]"
	if f.submitting {
		submit = "[ Creating... ]"
	}
	if f.canSubmit() {
		submit = style.Selected.Render(submit)
	} else {
		submit = style.Unavailable.Render(submit)
	}
	return strings.Join([]string{style.Muted.Render("[ Clear ]"), submit}, "  ")
}

func (f subscriptionForm) view() string {
	return lipgloss.JoinVertical(lipgloss.Left, f.blocks()...)
}
