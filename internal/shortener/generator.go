package shortener

import (
	"context"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphanumeric is the alphabet generated codes are drawn from.
const Alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultCodeLength is the length of generated codes.
const DefaultCodeLength = 6

// Draw returns one random candidate code.
type Draw func() string

// CodeGenerator produces codes that are not present in the registry.
type CodeGenerator struct {
	registry Registry
	draw     Draw
}

// NewCodeGenerator creates a generator that redraws until a free code is found.
func NewCodeGenerator(registry Registry, draw Draw) *CodeGenerator {
	return &CodeGenerator{
		registry: registry,
		draw:     draw,
	}
}

// Generate draws candidates until one is not registered. There is no retry
// bound; the loop only stops early if ctx is done or the registry fails.
func (g *CodeGenerator) Generate(ctx context.Context) (Code, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code := Code(g.draw())

		exists, err := g.registry.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code %q: %w", code, err)
		}

		if !exists {
			return code, nil
		}
	}
}

// NewDraw returns a nanoid-backed Draw over alphabet. A small alphabet or
// length makes collisions likely, which tests rely on.
func NewDraw(alphabet string, length int) (Draw, error) {
	gen, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("build code draw: %w", err)
	}

	return Draw(gen), nil
}
