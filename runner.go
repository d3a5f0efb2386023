package itnav

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/itnav/pkg/domain"
)

// Runner drives an interactive walk over the provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// Headless suppresses the banner and the prompt marker.
	Headless bool
	Renderer ContentRenderer
	// OnMove, if set, receives the walk after every accepted input.
	OnMove func(domain.Walk)
}

// ContentRenderer transforms markdown content before it is written.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner over in and out.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run walks the tree starting from w until the user quits, input ends or a
// terminal node is shown. It returns the last walk.
func (r *Runner) Run(ctx context.Context, g *Guide, w domain.Walk) (domain.Walk, error) {
	if r.Input == nil {
		return w, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return w, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)
	out := r.Output

	if !r.Headless {
		fmt.Fprintln(out, "--- IT Trouble Navigator ---")
	}

	for {
		if err := ctx.Err(); err != nil {
			return w, err
		}

		view := g.Render(ctx, w)
		r.show(g, view)
		if view.IsTerminal() {
			return w, nil
		}

		if !r.Headless {
			fmt.Fprint(out, "> ")
		}
		text, err := lines.ReadString('\n')
		input := strings.TrimSpace(text)
		if err != nil && (err != io.EOF || input == "") {
			if err == io.EOF {
				return w, nil
			}
			return w, fmt.Errorf("input error: %w", err)
		}
		if input, err = SanitizeInput(input); err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Fprintln(out, "Bye!")
			return w, nil
		}

		next, err := r.apply(ctx, g, view, w, input)
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		w = next
		if r.OnMove != nil {
			r.OnMove(w)
		}
	}
}

func (r *Runner) apply(ctx context.Context, g *Guide, view domain.View, w domain.Walk, input string) (domain.Walk, error) {
	if view.Status == domain.ViewIdle {
		cats := g.Categories()
		if i, err := strconv.Atoi(input); err == nil && i >= 1 && i <= len(cats) {
			return g.Select(ctx, cats[i-1].ID)
		}
		return g.Select(ctx, input)
	}
	action, ok := ParseAction(view, input)
	if !ok {
		return w, fmt.Errorf("%w: %q", domain.ErrIllegalAction, input)
	}
	return g.Choose(ctx, w, action)
}

// ParseAction maps user input to one of the view's actions. It accepts the
// action name, its 1-based menu number, or a one-letter shortcut
// (y/n for the two branches of the node, b for back, r for reset).
func ParseAction(view domain.View, input string) (domain.Action, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if i, err := strconv.Atoi(input); err == nil {
		if i >= 1 && i <= len(view.Actions) {
			return view.Actions[i-1], true
		}
		return "", false
	}
	candidate := domain.Action(input)
	switch input {
	case "y":
		candidate = domain.ActionYes
		if view.Allows(domain.ActionResolved) {
			candidate = domain.ActionResolved
		}
	case "n":
		candidate = domain.ActionNo
		if view.Allows(domain.ActionNotResolved) {
			candidate = domain.ActionNotResolved
		}
	case "b":
		candidate = domain.ActionBack
	case "r":
		candidate = domain.ActionReset
	}
	if !view.Allows(candidate) {
		return "", false
	}
	return candidate, true
}

func (r *Runner) show(g *Guide, view domain.View) {
	out := r.Output
	switch view.Status {
	case domain.ViewIdle:
		fmt.Fprintln(out, "Select a category:")
		for i, c := range g.Categories() {
			fmt.Fprintf(out, "  %d. %s - %s\n", i+1, c.Name, c.Description)
		}
		return
	case domain.ViewUnresolved:
		fmt.Fprintf(out, "Node %q could not be found. The guide data needs fixing; please contact the IT desk.\n", view.NodeID)
		return
	}

	fmt.Fprintln(out, strings.TrimSpace(r.render(FormatNode(view))))
	labels := make([]string, len(view.Actions))
	for i, a := range view.Actions {
		labels[i] = fmt.Sprintf("[%d] %s", i+1, a)
	}
	if !view.IsTerminal() {
		fmt.Fprintln(out, strings.Join(labels, "  "))
	}
}

func (r *Runner) render(md string) string {
	if r.Renderer == nil {
		return md
	}
	rendered, err := r.Renderer(md)
	if err != nil {
		return md
	}
	return rendered
}

// FormatNode renders the node of view as markdown.
func FormatNode(view domain.View) string {
	if view.Node == nil {
		return ""
	}
	n := view.Node
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	if n.Body != "" {
		fmt.Fprintf(&b, "%s\n\n", n.Body)
	}
	for i, step := range n.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	if len(n.Steps) > 0 {
		b.WriteString("\n")
	}
	for _, s := range n.Sources {
		fmt.Fprintf(&b, "- [%s](%s)\n", s.Title, s.URL)
	}
	if len(n.Sources) > 0 {
		b.WriteString("\n")
	}
	if tp := n.TicketPreset; tp != nil {
		fmt.Fprintf(&b, "**Ticket:** %s (urgency %s)\n\n", tp.Category, tp.Urgency)
		if tp.Notes != "" {
			fmt.Fprintf(&b, "%s\n\n", tp.Notes)
		}
		if len(tp.RequiredFields) > 0 {
			fmt.Fprintf(&b, "Required: %s\n\n", strings.Join(tp.RequiredFields, ", "))
		}
	}
	return b.String()
}
