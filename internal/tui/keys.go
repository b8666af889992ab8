package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	NextTab  key.Binding
	PrevTab  key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	DetailUp key.Binding
	DetailDn key.Binding

	// Actions
	Quit        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Filter      key.Binding
	Refresh     key.Binding
	Open        key.Binding
	Like        key.Binding
	Comment     key.Binding
	DelComment  key.Binding
	Upload      key.Binding
	Club        key.Binding
	Search      key.Binding
	Shortlist   key.Binding
	Invite      key.Binding
	Accept      key.Binding
	Decline     key.Binding
	MarkRead    key.Binding
	MarkAllRead key.Binding
	Status      key.Binding
	ResetPass   key.Binding
	Delete      key.Binding
	Logout      key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab/l", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab/h", "previous tab"),
		),
		Tab1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "first tab")),
		Tab2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "second tab")),
		Tab3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "third tab")),
		Tab4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "fourth tab")),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous page"),
		),
		DetailUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "scroll details up"),
		),
		DetailDn: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "scroll details down"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "open media"),
		),
		Like: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "like/unlike"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		DelComment: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete my last comment"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload media"),
		),
		Club: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "filter by club"),
		),
		Search: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "search players"),
		),
		Shortlist: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shortlist"),
		),
		Invite: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "invite to tryout"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
		Decline: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "decline"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mark all read"),
		),
		Status: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle user status"),
		),
		ResetPass: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "reset password"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete/cancel"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Filter, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.NextPage, k.PrevPage, k.DetailUp, k.DetailDn, k.Filter, k.Refresh},
		{k.Open, k.Like, k.Comment, k.DelComment, k.Upload, k.Club},
		{k.Search, k.Shortlist, k.Invite, k.Accept, k.Decline, k.Delete},
		{k.MarkRead, k.MarkAllRead, k.Status, k.ResetPass, k.Logout, k.Quit},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
