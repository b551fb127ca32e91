// Package demo is a small inbox used by the weave CLI to exercise the
// engine: a message list rendered with a spread call, an unread counter and
// an overlay opened through the application bus.
package demo

import (
	"encoding/json"
	"fmt"
	"html"

	"github.com/weave-ui/weave/pkg/component"
	"github.com/weave-ui/weave/pkg/dom"
	"github.com/weave-ui/weave/pkg/template"
)

// OpenEvent is emitted on the App bus with the subject of the opened
// message.
const OpenEvent = "overlay:open"

// Message is one inbox entry.
type Message struct {
	ID      int    `json:"id"`
	Subject string `json:"subject"`
	Read    bool   `json:"read"`
}

// Messages is the default inbox content.
var Messages = []Message{
	{ID: 1, Subject: "Welcome to weave"},
	{ID: 2, Subject: "Your build finished"},
	{ID: 3, Subject: "Weekly report", Read: true},
}

// Inbox is the mounted demo.
type Inbox struct {
	App     *component.App
	Root    *component.Component
	List    *component.Component
	Overlay *component.Component

	messages []Message
}

// New builds the inbox for app and renders it into the body. The caller
// triggers the mount with app.Ready.
func New(app *component.App, messages []Message) (*Inbox, error) {
	in := &Inbox{App: app, messages: append([]Message(nil), messages...)}

	var err error
	in.Overlay, err = component.New(app, component.RenderFunc(renderOverlay), map[string]any{
		"open":  false,
		"text":  "",
		"close": func() { _ = in.Overlay.SetProps(map[string]any{"open": false}) },
	})
	if err != nil {
		return nil, err
	}
	app.Bus().On(OpenEvent, func(payload any) {
		_ = in.Overlay.SetProps(map[string]any{"open": true, "text": fmt.Sprint(payload)})
	})

	in.List, err = component.New(app, component.RenderFunc(renderList), map[string]any{
		"messages": in.rows(),
		"Row":      template.RenderFunc(renderRow),
		"open":     in.open,
	})
	if err != nil {
		return nil, err
	}

	in.Root, err = component.New(app, component.RenderFunc(renderRoot), map[string]any{
		"title":   "Inbox",
		"unread":  in.Unread(),
		"list":    in.List,
		"overlay": in.Overlay,
	})
	if err != nil {
		return nil, err
	}

	app.RenderToBody(in.Root)
	return in, nil
}

// Unread returns the number of unread messages.
func (in *Inbox) Unread() int {
	n := 0
	for _, m := range in.messages {
		if !m.Read {
			n++
		}
	}
	return n
}

// rows returns the messages as plain values for the list properties.
func (in *Inbox) rows() []any {
	out := make([]any, len(in.messages))
	for i, m := range in.messages {
		out[i] = map[string]any{"id": m.ID, "subject": m.Subject, "read": m.Read}
	}
	return out
}

// open marks the clicked message read and shows it in the overlay.
func (in *Inbox) open(ev *dom.Event) {
	id, _ := ev.CurrentTarget.GetAttribute("data-id")
	for i := range in.messages {
		m := &in.messages[i]
		if fmt.Sprint(m.ID) != id {
			continue
		}
		m.Read = true
		in.App.Bus().Emit(OpenEvent, m.Subject)
		_ = in.List.SetProps(map[string]any{"messages": in.rows()})
		_ = in.Root.SetProps(map[string]any{"unread": in.Unread()})
		return
	}
}

func renderRoot(p map[string]any) string {
	return `<main class="inbox"><h1>%{ title }%</h1><p class="count">%{ unread }% unread</p>%{ list }%%{ overlay }%</main>`
}

func renderList(p map[string]any) string {
	rows, err := json.Marshal(p["messages"])
	if err != nil {
		return `<ul class="messages"></ul>`
	}
	return `<ul class="messages">%{ Row(` + string(rows) + `...) }%</ul>`
}

func renderRow(a map[string]any) string {
	class := "message"
	if read, _ := a["read"].(bool); !read {
		class += " unread"
	}
	return fmt.Sprintf(`<li class="%s" data-id="%v" onclick="%%{ open }%%">%s</li>`,
		class, a["id"], html.EscapeString(fmt.Sprint(a["subject"])))
}

func renderOverlay(p map[string]any) string {
	if open, _ := p["open"].(bool); !open {
		return `<aside class="overlay" hidden></aside>`
	}
	return `<aside class="overlay"><p>%{ text }%</p><button onclick="%{ close }%">close</button></aside>`
}
