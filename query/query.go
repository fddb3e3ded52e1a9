package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"
	"go.uber.org/zap"

	"github.com/revelaction/lemrule/match"
	"github.com/revelaction/lemrule/pipeline"
	"github.com/revelaction/lemrule/render"
	"github.com/revelaction/lemrule/rule"
	"github.com/revelaction/lemrule/search"
	sent "github.com/revelaction/lemrule/sentence"
	"github.com/revelaction/lemrule/storage"
)

const (
	// commandPrefix is the Character in the prompt that prefixes a command
	commandPrefix = "/"

	// limit of sentences shown by a /find command
	findLimit = 2000
)

// ErrQuit is returned by Eval on the quit command.
var ErrQuit = errors.New("quit")

var errFindLimit = errors.New("find limit reached")

var commands = []prompt.Suggest{
	{Text: "/rule", Description: "add a rule: /rule Frisco=San Francisco"},
	{Text: "/rules", Description: "list the rules"},
	{Text: "/where", Description: "set the predicate: /where dep=ROOT,tag=VBG; dep=pobj,tag=NNP"},
	{Text: "/table", Description: "toggle the token table"},
	{Text: "/find", Description: "search stored docs by lemma: /find fly"},
	{Text: "quit", Description: "exit"},
}

type Handler struct {
	Pipeline  *pipeline.Pipeline
	DocRepo   storage.DocReader
	Renderer  *render.Renderer
	Predicate match.Predicate

	log *zap.Logger
}

// NewHandler returns a REPL handler. dr may be nil, then /find is disabled.
func NewHandler(p *pipeline.Pipeline, dr storage.DocReader, r *render.Renderer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return &Handler{
		Pipeline:  p,
		DocRepo:   dr,
		Renderer:  r,
		Predicate: match.Default(),
		log:       log,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Renderer.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	// initialize prompt history
	history := []string{}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		in := prompt.Input("      🔖 ", h.completer,
			prompt.OptionTitle("lemrule query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Renderer.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintln(h.Renderer.Out, "Prefix set to "+fmt.Sprintf("%t", h.Renderer.HasPrefix))
				}}),
		)

		history = append(history, in)

		err := h.Eval(ctx, in)
		if errors.Is(err, ErrQuit) {
			return nil
		}

		if err != nil {
			fmt.Fprintf(h.Renderer.Out, "🔴 %v\n", err)
		}
	}
}

// Eval runs one line of input: a command or a text to process.
func (h *Handler) Eval(ctx context.Context, in string) error {
	in = strings.TrimSpace(in)
	if in == "" {
		return nil
	}

	if in == "quit" {
		return ErrQuit
	}

	if !strings.HasPrefix(in, commandPrefix) {
		return h.process(ctx, in)
	}

	cmd, args, _ := strings.Cut(in, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/rule":
		return h.addRule(args)
	case "/rules":
		return h.listRules()
	case "/where":
		return h.setPredicate(args)
	case "/table":
		if h.Renderer.Format == "table" {
			h.Renderer.Format = render.Defaultformat
		} else {
			h.Renderer.Format = "table"
		}
		fmt.Fprintln(h.Renderer.Out, "Format set to: "+h.Renderer.Format)
		return nil
	case "/find":
		return h.find(ctx, strings.Fields(args))
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func (h *Handler) process(ctx context.Context, text string) error {
	doc, err := h.Pipeline.Process(ctx, text)
	if err != nil {
		return err
	}

	h.Renderer.Doc(doc, h.Predicate)
	return nil
}

func (h *Handler) addRule(expr string) error {
	r, err := rule.Parse(expr)
	if err != nil {
		return err
	}

	ruler, err := h.Pipeline.Ruler()
	if err != nil {
		return err
	}

	if err := ruler.Add(r); err != nil {
		return err
	}

	h.log.Debug("rule added", zap.Stringer("rule", r))
	fmt.Fprintf(h.Renderer.Out, "rule added: %s\n", r)
	return nil
}

func (h *Handler) listRules() error {
	ruler, err := h.Pipeline.Ruler()
	if err != nil {
		return err
	}

	for i, r := range ruler.Table().Rules() {
		fmt.Fprintf(h.Renderer.Out, "%3d %s\n", i, r)
	}
	return nil
}

func (h *Handler) setPredicate(args string) error {
	if args == "" {
		h.Predicate = match.Default()
	} else {
		p, err := match.ParsePredicate(match.SplitClauses(args))
		if err != nil {
			return err
		}
		h.Predicate = p
	}

	fmt.Fprintf(h.Renderer.Out, "where %s\n", h.Predicate)
	return nil
}

// find renders the stored sentences containing all lemmas that have at least
// one token satisfying the predicate.
func (h *Handler) find(ctx context.Context, lemmas []string) error {
	if h.DocRepo == nil {
		return errors.New("no doc storage configured")
	}

	docList, err := h.DocRepo.List("")
	if err != nil {
		return fmt.Errorf("listing docs: %w", err)
	}
	for _, d := range docList {
		h.Renderer.AddDocName(d.Id, d.Title)
	}

	shown := 0
	err = search.New(h.DocRepo, h.Predicate).Matching().All(lemmas, func(s sent.Sentence) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if shown == findLimit {
			return errFindLimit
		}

		h.Renderer.Sentence(s, h.Predicate)
		shown++
		return nil
	})

	if errors.Is(err, errFindLimit) {
		fmt.Fprintf(h.Renderer.Out, "showing the first %d sentences\n", findLimit)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetching candidates: %w", err)
	}

	h.log.Debug("find", zap.Strings("lemmas", lemmas), zap.Int("sentences", shown))
	return nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	befCursor := in.TextBeforeCursor()

	// Only one character in line
	if "" == befCursor {
		return []prompt.Suggest{}
	}

	tokens := strings.Split(befCursor, " ")
	if len(tokens) == 1 {
		return prompt.FilterHasPrefix(commands, tokens[0], true)
	}

	word := in.GetWordBeforeCursor()
	switch tokens[0] {
	case "/where":
		return prompt.FilterHasPrefix(attrSuggestions(), word, true)
	case "/rule":
		if len(tokens) == 2 && !strings.Contains(word, "=") {
			return prompt.FilterHasPrefix(ruleAttrSuggestions(), word, true)
		}
	}

	return []prompt.Suggest{}
}

func attrSuggestions() []prompt.Suggest {
	s := []prompt.Suggest{}
	for _, a := range sent.Attrs() {
		name := strings.ToLower(a.String())
		s = append(s, prompt.Suggest{Text: name + "=", Description: "token " + name})
	}
	return s
}

func ruleAttrSuggestions() []prompt.Suggest {
	s := []prompt.Suggest{}
	for _, a := range sent.Attrs() {
		s = append(s, prompt.Suggest{Text: a.String() + ":", Description: "match token " + strings.ToLower(a.String())})
	}
	return s
}
