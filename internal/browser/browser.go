// Package browser wraps the playwright automation layer: launching the
// browser context, adapting pages and elements to the executor's contracts
// and scanning the current view for candidate elements.
package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"github.com/webact/webact-go/internal/config"
)

const (
	LoadStateLoad             = "load"
	LoadStateDomcontentloaded = "domcontentloaded"
	LoadStateNetworkidle      = "networkidle"
)

type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page
	tracing bool
	log     zerolog.Logger
}

func NewManager(cfg config.Browser, log zerolog.Logger) (*Manager, error) {
	if err := playwright.Install(); err != nil {
		return nil, fmt.Errorf("install playwright failed: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright failed: %w", err)
	}

	args := append([]string{"--disable-blink-features=AutomationControlled"}, cfg.Args...)
	viewport := &playwright.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}

	m := &Manager{pw: pw, log: log}

	if cfg.Persistent {
		userDataDir := cfg.PersistentUserPath
		if userDataDir == "" {
			cwd, _ := os.Getwd()
			userDataDir = filepath.Join(cwd, ".playwright_data")
		}
		context, err := pw.Chromium.LaunchPersistentContext(userDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless: playwright.Bool(cfg.Headless),
			Viewport: viewport,
			Args:     args,
		})
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("launch persistent context failed: %w", err)
		}
		m.Context = context
	} else {
		b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(cfg.Headless),
			Args:     args,
		})
		if err != nil {
			_ = pw.Stop()
			return nil, fmt.Errorf("launch browser failed: %w", err)
		}
		context, err := b.NewContext(playwright.BrowserNewContextOptions{Viewport: viewport})
		if err != nil {
			_ = b.Close()
			_ = pw.Stop()
			return nil, fmt.Errorf("create context failed: %w", err)
		}
		m.browser = b
		m.Context = context
	}

	if cfg.Tracing {
		if err := m.Context.Tracing().Start(playwright.TracingStartOptions{
			Screenshots: playwright.Bool(cfg.Trace.Screenshots),
			Snapshots:   playwright.Bool(cfg.Trace.Snapshots),
			Sources:     playwright.Bool(cfg.Trace.Sources),
		}); err != nil {
			log.Warn().Err(err).Msg("failed to start tracing")
		} else {
			m.tracing = true
		}
	}

	pages := m.Context.Pages()
	if len(pages) > 0 {
		m.Page = pages[0]
	} else {
		page, err := m.Context.NewPage()
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("create page failed: %w", err)
		}
		m.Page = page
	}

	m.Page.SetDefaultTimeout(10000)
	m.Page.SetDefaultNavigationTimeout(60000)

	log.Info().Bool("headless", cfg.Headless).Bool("persistent", cfg.Persistent).Msg("browser started")
	return m, nil
}

// Settle waits for the current page to go network-idle; a timeout here is
// not fatal, the scan just sees whatever rendered so far.
func (m *Manager) Settle() {
	state := playwright.LoadState(LoadStateNetworkidle)
	if err := m.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: &state}); err != nil {
		m.log.Debug().Err(err).Msg("wait for load state")
	}
}

func (m *Manager) URL() string {
	return m.Page.URL()
}

func (m *Manager) Close() {
	if m.tracing {
		if err := m.Context.Tracing().Stop(); err != nil {
			m.log.Warn().Err(err).Msg("failed to stop tracing")
		}
	}
	if m.Context != nil {
		_ = m.Context.Close()
	}
	if m.browser != nil {
		_ = m.browser.Close()
	}
	if m.pw != nil {
		_ = m.pw.Stop()
	}
}
