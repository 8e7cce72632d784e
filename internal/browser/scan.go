package browser

import (
	"encoding/base64"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// MaxCandidates bounds the choice list: the reply grammar answers with a
// single uppercase letter.
const MaxCandidates = 26

// Candidate is one interactive element offered to the policy as a labeled
// choice. Selector resolves the element after the model picks its letter.
type Candidate struct {
	Selector    string
	Description string
}

// scanScript collects the visible interactive elements in the viewport,
// orders them top-to-bottom then left-to-right (the order the choice letters
// are assigned in), tags each with data-webact-id and returns one descriptor
// per element.
const scanScript = `() => {
	const max = 26;
	document.querySelectorAll('[data-webact-id]').forEach(el => el.removeAttribute('data-webact-id'));

	const tags = new Set(['a', 'button', 'input', 'textarea', 'select', 'details', 'summary']);
	const roles = new Set(['button', 'link', 'checkbox', 'radio', 'menuitem', 'tab', 'textbox', 'combobox', 'option']);

	function visible(el) {
		const r = el.getBoundingClientRect();
		const s = window.getComputedStyle(el);
		return r.width > 0 && r.height > 0 &&
			s.visibility !== 'hidden' && s.display !== 'none' && s.opacity !== '0' &&
			r.top < window.innerHeight && r.bottom > 0 &&
			r.left < window.innerWidth && r.right > 0;
	}

	function interactive(el) {
		const tag = el.tagName.toLowerCase();
		const role = (el.getAttribute('role') || '').toLowerCase();
		return tags.has(tag) || roles.has(role) || el.onclick != null;
	}

	function label(el) {
		let t = (el.innerText || el.textContent || '').replace(/\s+/g, ' ').trim();
		if (!t) t = (el.getAttribute('aria-label') || '').trim();
		if (!t) t = (el.getAttribute('placeholder') || '').trim();
		if (!t) t = (el.getAttribute('title') || '').trim();
		if (t.length > 80) t = t.slice(0, 80) + '...';
		return t;
	}

	const found = [];
	for (const el of document.querySelectorAll('*')) {
		if (!interactive(el) || !visible(el)) continue;
		const r = el.getBoundingClientRect();
		found.push({ el: el, top: r.top, left: r.left });
	}
	found.sort((a, b) => (a.top - b.top) || (a.left - b.left));

	const out = [];
	for (let i = 0; i < found.length && i < max; i++) {
		const el = found[i].el;
		el.setAttribute('data-webact-id', String(i));

		const parts = ['<' + el.tagName.toLowerCase() + '>'];
		const kind = (el.getAttribute('role') || el.getAttribute('type') || '').toLowerCase();
		if (kind) parts.push('(' + kind + ')');
		const t = label(el);
		if (t) parts.push('"' + t + '"');
		out.push(parts.join(' '));
	}
	return out;
}`

// Scan evaluates the candidate collector on the current page. The returned
// slice order matches the on-page letter order, so index i grounds letter
// 'A'+i.
func (m *Manager) Scan() ([]Candidate, error) {
	result, err := m.Page.Evaluate(scanScript)
	if err != nil {
		return nil, fmt.Errorf("candidate scan failed: %w", err)
	}

	raw, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected array from scan, got %T", result)
	}

	candidates := make([]Candidate, 0, len(raw))
	for i, item := range raw {
		desc, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string descriptor at %d, got %T", i, item)
		}
		candidates = append(candidates, Candidate{
			Selector:    fmt.Sprintf("[data-webact-id='%d']", i),
			Description: desc,
		})
	}
	return candidates, nil
}

// Links returns the absolute same-page-reachable link URLs currently in the
// document, for crawler mode.
func (m *Manager) Links() ([]string, error) {
	result, err := m.Page.Evaluate(`() => {
		const out = [];
		for (const a of document.querySelectorAll('a[href]')) {
			const href = a.href;
			if (href && (href.startsWith('http://') || href.startsWith('https://'))) out.push(href);
		}
		return out;
	}`)
	if err != nil {
		return nil, fmt.Errorf("link scan failed: %w", err)
	}
	raw, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected array from link scan, got %T", result)
	}
	links := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			links = append(links, s)
		}
	}
	return links, nil
}

// Highlight outlines the chosen element before acting on it.
func (m *Manager) Highlight(selector string) {
	_, err := m.Page.Evaluate(`(sel) => {
		const el = document.querySelector(sel);
		if (el) {
			el.style.outline = '3px solid red';
			el.scrollIntoView({ block: 'center', inline: 'center' });
		}
	}`, selector)
	if err != nil {
		m.log.Debug().Err(err).Str("selector", selector).Msg("highlight failed")
	}
}

// Screenshot captures the current viewport as base64 JPEG for the prompt's
// visual context. Failures degrade to a text-only turn.
func (m *Manager) Screenshot() string {
	buf, err := m.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(false),
		Type:     playwright.ScreenshotTypeJpeg,
		Quality:  playwright.Int(70),
	})
	if err != nil {
		m.log.Warn().Err(err).Msg("screenshot failed")
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf)
}
