package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CodeSource hands out candidate codes for new records.
type CodeSource interface {
	Generate(ctx context.Context) (Code, error)
}

// ShortenInput is the raw creation request. DurationMinutes is kept as text
// so that blank or non-numeric values fall back to the default duration.
type ShortenInput struct {
	Destination     string
	DurationMinutes string
	Alias           string
}

// Service is the write path: it validates input, allocates a code and
// inserts the record.
type Service struct {
	registry Registry
	codes    CodeSource
	baseURL  string
	clock    Clock
	events   emitter
}

// NewService creates a shorten service. A nil sink discards events and a
// nil clock uses the system time.
func NewService(registry Registry, codes CodeSource, baseURL string, sink EventSink, clock Clock) *Service {
	clock = clockOrSystem(clock)

	return &Service{
		registry: registry,
		codes:    codes,
		baseURL:  strings.TrimRight(baseURL, "/"),
		clock:    clock,
		events:   newEmitter(sink, clock),
	}
}

// Shorten creates a short link for in.Destination.
func (s *Service) Shorten(ctx context.Context, in ShortenInput) (*ShortLink, error) {
	s.events.emit(MsgProcessing, map[string]any{
		"destination": in.Destination,
		"duration":    in.DurationMinutes,
		"alias":       in.Alias,
	})

	if err := ValidateDestination(in.Destination); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	shortURL := &ShortURL{
		Destination: in.Destination,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ParseDurationMinutes(in.DurationMinutes)),
	}

	alias := strings.TrimSpace(in.Alias)

	var err error
	if alias != "" {
		err = s.insertAlias(ctx, shortURL, Code(alias))
	} else {
		err = s.insertGenerated(ctx, shortURL)
	}

	if err != nil {
		return nil, err
	}

	s.events.emit(MsgCreated, map[string]any{
		"code":        string(shortURL.Code),
		"destination": shortURL.Destination,
		"expiresAt":   shortURL.ExpiresAt,
	})

	return &ShortLink{
		ShortURL: *shortURL,
		Link:     s.Link(shortURL.Code),
	}, nil
}

func (s *Service) insertAlias(ctx context.Context, shortURL *ShortURL, alias Code) error {
	if !ValidAlias(string(alias)) {
		return ErrInvalidAlias
	}

	exists, err := s.registry.Exists(ctx, alias)
	if err != nil {
		return fmt.Errorf("check alias: %w", err)
	}

	if exists {
		return ErrAliasTaken
	}

	shortURL.Code = alias

	err = s.registry.Insert(ctx, shortURL)
	if errors.Is(err, ErrDuplicateCode) {
		return ErrAliasTaken
	}

	return err
}

// insertGenerated retries once when a concurrent insert claims the drawn
// code between Generate and Insert.
func (s *Service) insertGenerated(ctx context.Context, shortURL *ShortURL) error {
	for attempt := 0; attempt < 2; attempt++ {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}

		shortURL.Code = code

		err = s.registry.Insert(ctx, shortURL)
		if err == nil {
			return nil
		}

		if !errors.Is(err, ErrDuplicateCode) {
			return err
		}
	}

	return ErrCodeSpaceExhausted
}

// List returns every record in insertion order.
func (s *Service) List(ctx context.Context) ([]ShortURL, error) {
	links, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	s.events.emit(MsgListed, map[string]any{"count": len(links)})

	return links, nil
}

// Link builds the public short URL for code.
func (s *Service) Link(code Code) string {
	return s.baseURL + "/" + string(code)
}
