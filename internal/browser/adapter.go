package browser

import (
	"github.com/playwright-community/playwright-go"
)

// Tab adapts the manager's current page to the executor's tab contract.
// NEW TAB and CLOSE TAB switch the manager's current page, so the adapter
// goes through the manager instead of holding a page directly.
type Tab struct {
	m *Manager
}

func (m *Manager) Tab() *Tab {
	return &Tab{m: m}
}

func (t *Tab) Goto(url string) error {
	_, err := t.m.Page.Goto(url)
	return err
}

func (t *Tab) GoBack() error {
	_, err := t.m.Page.GoBack()
	return err
}

func (t *Tab) GoForward() error {
	_, err := t.m.Page.GoForward()
	return err
}

func (t *Tab) NewPage() error {
	page, err := t.m.Context.NewPage()
	if err != nil {
		return err
	}
	t.m.Page = page
	return nil
}

func (t *Tab) Close() error {
	if err := t.m.Page.Close(); err != nil {
		return err
	}
	if pages := t.m.Context.Pages(); len(pages) > 0 {
		t.m.Page = pages[len(pages)-1]
	}
	return nil
}

func (t *Tab) Press(key string) error {
	return t.m.Page.Keyboard().Press(key)
}

func (t *Tab) Evaluate(script string) error {
	_, err := t.m.Page.Evaluate(script)
	return err
}

// PageElement adapts a playwright locator to the executor's element
// contract.
type PageElement struct {
	loc playwright.Locator
}

// Element resolves a selector on the current page to an element handle.
func (m *Manager) Element(selector string) *PageElement {
	return &PageElement{loc: m.Page.Locator(selector).First()}
}

func (el *PageElement) Click() error {
	if err := el.loc.ScrollIntoViewIfNeeded(); err != nil {
		return err
	}
	return el.loc.Click()
}

func (el *PageElement) Hover() error {
	return el.loc.Hover()
}

func (el *PageElement) Fill(text string) error {
	return el.loc.Fill(text)
}

func (el *PageElement) Press(key string) error {
	return el.loc.Press(key)
}

func (el *PageElement) SelectOption(value string) error {
	_, err := el.loc.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	return err
}
