package agent

import (
	"context"
	"math/rand"
	"time"

	"github.com/webact/webact-go/internal/action"
)

// Crawl walks the site by following a random unvisited link each step, up to
// the configured crawler budget. Navigation goes through the executor so the
// walk shows up in the action history like any other session.
func (s *Session) Crawl(ctx context.Context) (err error) {
	defer func() {
		if _, serr := s.exec.SaveHistory(action.DefaultHistoryFile); serr != nil && err == nil {
			err = serr
		}
	}()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	visited := map[string]bool{s.browser.URL(): true}

	for step := 1; step <= s.cfg.Basic.CrawlerMaxSteps; step++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.browser.Settle()

		links, linkErr := s.browser.Links()
		if linkErr != nil {
			return linkErr
		}

		next, ok := pickLink(links, visited, rnd)
		if !ok {
			s.log.Info().Int("step", step).Msg("no unvisited links left, stopping crawl")
			return nil
		}
		visited[next] = true

		rec := s.exec.Execute(action.Request{Action: action.Goto, Value: next})
		if rec.Err != nil {
			s.log.Warn().Str("url", next).Msg("navigation failed, picking another link")
		}
	}

	return nil
}

// pickLink chooses a random link that has not been visited yet.
func pickLink(links []string, visited map[string]bool, rnd *rand.Rand) (string, bool) {
	fresh := make([]string, 0, len(links))
	for _, l := range links {
		if !visited[l] {
			fresh = append(fresh, l)
		}
	}
	if len(fresh) == 0 {
		return "", false
	}
	return fresh[rnd.Intn(len(fresh))], true
}
