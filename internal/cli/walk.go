package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/itnav"
	"github.com/aretw0/itnav/internal/presentation/tui"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/aretw0/itnav/pkg/session"
)

// WalkOptions configures an interactive walk.
type WalkOptions struct {
	CategoryID string
	SessionID  string
	Fresh      bool
	Headless   bool
	Plain      bool
	Input      io.Reader
	Output     io.Writer
}

// RunWalk drives an interactive walk. With a session ID the position is
// restored from and saved to the session store after every move.
func RunWalk(ctx *SignalContext, guide *itnav.Guide, sessions *session.Manager, logger *slog.Logger, opts WalkOptions) error {
	if !opts.Headless {
		tui.PrintBanner(opts.Output)
	}

	w := domain.Walk{}
	if opts.SessionID != "" {
		if opts.Fresh {
			if err := sessions.Delete(ctx, opts.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}
		loaded, err := sessions.Load(ctx, opts.SessionID)
		switch {
		case err == nil:
			w = loaded
			logger.Info("Session Resumed", "session_id", opts.SessionID, "node", w.Tip())
			if !opts.Headless && !w.IsIdle() {
				PrintSystemMessage(opts.Output, "Resuming at '%s' node...", w.Tip())
			}
		case errors.Is(err, domain.ErrSessionNotFound):
			logger.Info("Session Created", "session_id", opts.SessionID)
		default:
			return fmt.Errorf("failed to load session: %w", err)
		}
	}

	if opts.CategoryID != "" && w.IsIdle() {
		selected, err := guide.Select(ctx, opts.CategoryID)
		if err != nil {
			return err
		}
		w = selected
	}

	r := itnav.NewRunner(NewInterruptibleReader(opts.Input, ctx.Done()), opts.Output)
	r.Headless = opts.Headless
	if !opts.Plain && !opts.Headless {
		if render := tui.NewRenderer("", 0); render != nil {
			r.Renderer = render
		}
	}
	if opts.SessionID != "" {
		r.OnMove = func(next domain.Walk) {
			if err := sessions.Save(ctx, opts.SessionID, next); err != nil {
				logger.Warn("failed to save session", "session_id", opts.SessionID, "error", err)
			}
		}
		if err := sessions.Save(ctx, opts.SessionID, w); err != nil {
			logger.Warn("failed to save session", "session_id", opts.SessionID, "error", err)
		}
	}

	final, err := r.Run(ctx, guide, w)
	if !opts.Headless {
		switch {
		case ctx.Signal() != nil:
			fmt.Fprintln(opts.Output)
			PrintSystemMessage(opts.Output, "Interrupted at '%s' node.", final.Tip())
		case err == nil && !final.IsIdle():
			PrintSystemMessage(opts.Output, "Finished at '%s' node.", final.Tip())
		}
	}
	return HandleExecutionError(err)
}
