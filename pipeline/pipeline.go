package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/revelaction/lemrule/model"
	"github.com/revelaction/lemrule/rule"
	sent "github.com/revelaction/lemrule/sentence"
)

// Component names, in processing order.
const (
	TokenizerName      = "tokenizer"
	SenterName         = "senter"
	TaggerName         = "tagger"
	AttributeRulerName = "attribute_ruler"
	LemmatizerName     = "lemmatizer"
	ParserName         = "parser"
)

var (
	ErrModelNotFound      = model.ErrModelNotFound
	ErrComponentNotFound  = errors.New("component not found")
	ErrDuplicateComponent = errors.New("component already in pipeline")
)

// Annotation is the state passed through the components. The tokenizer
// fills Sentences with a single sentence, the senter splits it.
type Annotation struct {
	Text      string
	Sentences [][]sent.Token
}

// Component is a processing step of the pipeline.
type Component interface {
	Name() string
	Process(a *Annotation) error
}

// Pipeline runs text through its components and returns an annotated Doc.
type Pipeline struct {
	Model *model.Model

	components []Component
	log        *zap.Logger
}

type Option func(*Pipeline)

// WithLogger sets the logger, zap.NewNop() by default.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// Load builds the standard pipeline for the model called name.
func Load(reg *model.Registry, name string, opts ...Option) (*Pipeline, error) {
	m, err := reg.Load(name)
	if err != nil {
		return nil, err
	}

	return New(m, opts...), nil
}

// New builds the standard pipeline for m:
// tokenizer, senter, tagger, attribute_ruler, lemmatizer, parser.
func New(m *model.Model, opts ...Option) *Pipeline {
	p := &Pipeline{
		Model: m,
		log:   zap.NewNop(),
		components: []Component{
			NewTokenizer(m),
			NewSenter(),
			NewTagger(m),
			NewAttributeRuler(m, rule.NewTable()),
			NewLemmatizer(m),
			NewParser(m),
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.log = p.log.With(zap.String("model", m.Name))
	return p
}

// Names returns the component names in processing order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.components))
	for _, c := range p.components {
		names = append(names, c.Name())
	}
	return names
}

// Component returns the component called name.
func (p *Pipeline) Component(name string) (Component, error) {
	for _, c := range p.components {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
}

// Ruler returns the attribute_ruler component.
func (p *Pipeline) Ruler() (*AttributeRuler, error) {
	c, err := p.Component(AttributeRulerName)
	if err != nil {
		return nil, err
	}

	r, ok := c.(*AttributeRuler)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an attribute ruler", ErrComponentNotFound, AttributeRulerName)
	}
	return r, nil
}

// Add appends c at the end of the pipeline.
func (p *Pipeline) Add(c Component) error {
	if _, err := p.Component(c.Name()); err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, c.Name())
	}

	p.components = append(p.components, c)
	return nil
}

// Remove drops the component called name.
func (p *Pipeline) Remove(name string) error {
	for i, c := range p.components {
		if c.Name() == name {
			p.components = append(p.components[:i:i], p.components[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrComponentNotFound, name)
}

// Process runs text through all components.
func (p *Pipeline) Process(ctx context.Context, text string) (sent.Doc, error) {
	a := &Annotation{Text: text}

	for _, c := range p.components {
		if err := ctx.Err(); err != nil {
			return sent.Doc{}, err
		}

		if err := c.Process(a); err != nil {
			return sent.Doc{}, fmt.Errorf("component %s: %w", c.Name(), err)
		}
	}

	doc := sent.Doc{Sentences: make([]sent.Sentence, 0, len(a.Sentences))}
	numTokens := 0
	for i, tokens := range a.Sentences {
		doc.Sentences = append(doc.Sentences, sent.Sentence{Id: i, Tokens: tokens})
		numTokens += len(tokens)
	}

	p.log.Debug("processed text",
		zap.Int("runes", len([]rune(text))),
		zap.Int("sentences", len(doc.Sentences)),
		zap.Int("tokens", numTokens),
	)

	return doc, nil
}
