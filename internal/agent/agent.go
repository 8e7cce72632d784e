// Package agent runs the perceive → prompt → infer → ground → execute loop
// for one task session.
package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/webact/webact-go/internal/action"
	"github.com/webact/webact-go/internal/browser"
	"github.com/webact/webact-go/internal/config"
	"github.com/webact/webact-go/internal/llm"
	"github.com/webact/webact-go/internal/prompt"
)

var (
	ErrInterrupted = errors.New("execution interrupted")
	ErrMaxSteps    = errors.New("max steps reached")
	ErrNoProgress  = errors.New("too many consecutive no-op steps")
)

const stepDelay = 2 * time.Second

// Session drives one task attempt. The loop is strictly sequential: at most
// one action is in flight, and cancellation only takes effect between
// actions.
type Session struct {
	cfg     config.Config
	browser *browser.Manager
	client  llm.Client
	exec    *action.Executor
	prompts *prompt.Builder
	log     zerolog.Logger
}

func NewSession(cfg config.Config, b *browser.Manager, client llm.Client, log zerolog.Logger) *Session {
	exec := action.NewExecutor(b.Tab(), action.Options{
		SaveDir:     cfg.Basic.SaveFileDir,
		ActionSpace: cfg.Agent.ActionSpace,
	}, log)
	return &Session{
		cfg:     cfg,
		browser: b,
		client:  client,
		exec:    exec,
		prompts: prompt.NewBuilder(),
		log:     log,
	}
}

// Executor exposes the session's executor for action-space tweaks and
// history access.
func (s *Session) Executor() *action.Executor {
	return s.exec
}

// Run executes the task until the model terminates, the step budget runs
// out, progress stalls or the user interrupts. The action history is saved
// on every exit path; a failed save surfaces as the session error.
func (s *Session) Run(ctx context.Context, task string) (err error) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	defer func() {
		if _, serr := s.exec.SaveHistory(action.DefaultHistoryFile); serr != nil && err == nil {
			err = serr
		}
	}()

	wantScreenshot := false
	for _, info := range s.cfg.Agent.InputInfo {
		if info == "screenshot" {
			wantScreenshot = true
		}
	}

	noops := 0
	for step := 1; step <= s.cfg.Agent.MaxAutoOp; step++ {
		select {
		case <-interrupt:
			s.log.Warn().Int("step", step).Msg("interrupted by user")
			return ErrInterrupted
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.browser.Settle()

		candidates, scanErr := s.browser.Scan()
		if scanErr != nil {
			return fmt.Errorf("step %d: %w", step, scanErr)
		}

		descriptors := make([]string, len(candidates))
		for i, c := range candidates {
			descriptors[i] = c.Description
		}
		bundle := s.prompts.Build(task, s.exec.History(), prompt.LabelChoices(descriptors))

		var screenshot string
		if wantScreenshot {
			screenshot = s.browser.Screenshot()
		}

		reply, genErr := s.client.Generate(ctx, bundle, screenshot)
		if genErr != nil {
			return fmt.Errorf("step %d: %w", step, genErr)
		}

		req := s.groundReply(reply, candidates)
		s.log.Info().Int("step", step).Str("url", s.browser.URL()).
			Str("action", string(req.Action)).Str("element", req.Element).Str("value", req.Value).
			Msg("decision")

		rec := s.exec.Execute(req)

		if req.Action == action.Terminate {
			s.log.Info().Int("step", step).Msg("model terminated the task")
			return nil
		}

		if rec.Err == nil && req.Action != action.None {
			noops = 0
		} else {
			noops++
			if noops >= s.cfg.Agent.MaxContinuousNoOp {
				return fmt.Errorf("%w: %d in a row", ErrNoProgress, noops)
			}
		}

		select {
		case <-time.After(stepDelay):
		case <-interrupt:
			return ErrInterrupted
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return ErrMaxSteps
}

// groundReply parses the model reply and resolves its chosen letter to a
// concrete element. Malformed replies turn into requests the executor will
// record as unsupported rather than aborting the session.
func (s *Session) groundReply(reply string, candidates []browser.Candidate) action.Request {
	ans, err := prompt.ParseAnswer(reply)
	if err != nil {
		s.log.Warn().Err(err).Msg("unparseable model reply")
		return action.Request{}
	}

	req := action.Request{
		Action: action.Action(strings.ToUpper(ans.Action)),
		Value:  ans.Value,
	}

	if ans.Letter != "" {
		idx, ok := prompt.LetterIndex(ans.Letter)
		if !ok || idx >= len(candidates) {
			s.log.Warn().Str("letter", ans.Letter).Int("choices", len(candidates)).
				Msg("chosen letter outside the rendered choice list")
			return req
		}
		chosen := candidates[idx]
		if s.cfg.Agent.Highlight {
			s.browser.Highlight(chosen.Selector)
		}
		req.Target = s.browser.Element(chosen.Selector)
		req.Element = chosen.Description
	}
	return req
}
