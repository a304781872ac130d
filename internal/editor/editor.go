// Package editor is the tree editor: it turns a document into a view tree
// whose controls compute the next whole document, and applies path
// addressed edits for scripted use.
//
// The editor holds no document state. Every Render call is a function of the
// value and callback it is given, and every control hands a fresh document to
// that callback.
package editor

import (
	"github.com/mcncl/blocktree/internal/classifier"
	"github.com/mcncl/blocktree/internal/config"
	"github.com/mcncl/blocktree/internal/logger"
	"github.com/mcncl/blocktree/internal/models"
	"github.com/mcncl/blocktree/internal/view"
)

// Editor renders and edits documents under one visibility policy.
type Editor struct {
	classifier *classifier.Classifier
	policy     *config.Policy
	log        logger.ILogger
}

// Option configures an Editor.
type Option func(*Editor)

// WithPolicy sets the field visibility policy.
func WithPolicy(p *config.Policy) Option {
	return func(e *Editor) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithLogger sets the logger used for applied and rejected edits.
func WithLogger(l logger.ILogger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an Editor. Without options it uses the default policy and
// discards logs.
func New(opts ...Option) *Editor {
	e := &Editor{
		policy: config.DefaultPolicy(),
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.classifier = classifier.NewClassifierWithPolicy(e.policy)
	return e
}

// Classifier returns the classifier bound to the editor's policy.
func (e *Editor) Classifier() *classifier.Classifier { return e.classifier }

// Render builds the view of value with a default Editor.
func Render(value models.JSONValue, onChange func(models.JSONValue)) *view.Node {
	return New().Render(value, onChange)
}

// Render builds the view of doc. Running any control of the returned tree
// computes the next document and calls onChange with it exactly once; a
// control that fails returns its error and does not call onChange.
func (e *Editor) Render(doc models.JSONValue, onChange func(models.JSONValue)) *view.Node {
	b := &builder{e: e, doc: doc, onChange: onChange}
	return b.value(doc, models.Root, "", classifier.Classify(doc), 0)
}
