// Package datauri publishes artifacts as self-contained data URIs. The
// locator embeds a JSON document with the SVG markup inlined, so no storage
// backend is involved and the same markup always yields the same locator.
package datauri

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glyphmint/glyphmint/service/artifact"
)

const (
	// DocumentPrefix starts every locator produced by this publisher.
	DocumentPrefix = "data:application/json;base64,"

	// ImagePrefix starts the inlined image of every published document.
	ImagePrefix = "data:image/svg+xml;base64,"

	// DefaultDescription is used unless WithDescription overrides it.
	DefaultDescription = "Autonomously generated on-demand vector glyph"
)

// Document is the published JSON descriptor. Field order is part of the
// locator format.
type Document struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Publisher encodes artifacts as data:application/json;base64 locators.
type Publisher struct {
	description string
}

// Option customizes a publisher.
type Option func(*Publisher)

// WithDescription overrides the document description.
func WithDescription(description string) Option {
	return func(p *Publisher) {
		p.description = description
	}
}

// New creates a data-URI publisher.
func New(options ...Option) *Publisher {
	ret := &Publisher{description: DefaultDescription}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Publish wraps markup in a JSON document and returns it as a data URI.
func (p *Publisher) Publish(_ context.Context, itemID uint64, markup []byte) (string, error) {
	document := &Document{
		Name:        fmt.Sprintf("Glyph #%d", itemID),
		Description: p.description,
		Image:       ImagePrefix + base64.StdEncoding.EncodeToString(markup),
	}
	data, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("failed to encode document for item %d: %w", itemID, err)
	}
	return DocumentPrefix + base64.StdEncoding.EncodeToString(data), nil
}

var _ artifact.Publisher = (*Publisher)(nil)

// Decode parses a locator produced by Publish back into its document and raw
// markup.
func Decode(locator string) (*Document, []byte, error) {
	if !strings.HasPrefix(locator, DocumentPrefix) {
		return nil, nil, fmt.Errorf("unsupported locator: %.40s", locator)
	}
	data, err := base64.StdEncoding.DecodeString(locator[len(DocumentPrefix):])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode locator document: %w", err)
	}
	document := &Document{}
	if err = json.Unmarshal(data, document); err != nil {
		return nil, nil, fmt.Errorf("failed to parse locator document: %w", err)
	}
	if !strings.HasPrefix(document.Image, ImagePrefix) {
		return nil, nil, fmt.Errorf("unsupported image encoding: %.40s", document.Image)
	}
	markup, err := base64.StdEncoding.DecodeString(document.Image[len(ImagePrefix):])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image markup: %w", err)
	}
	return document, markup, nil
}
