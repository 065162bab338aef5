package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hariprasanth02/2203031240132/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service  *shortener.Service
	resolver *shortener.Resolver
	logger   *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service *shortener.Service, resolver *shortener.Resolver, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service:  service,
		resolver: resolver,
		logger:   logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for logging.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	link, err := h.service.Shorten(ctx, shortener.ShortenInput{
		Destination:     req.Body.URL,
		DurationMinutes: string(req.Body.Duration),
		Alias:           req.Body.Alias,
	})
	if err != nil {
		return nil, h.toHTTPError(ctx, "create short url", err)
	}

	resp := &CreateShortURLResponse{}
	resp.Location = link.Link
	resp.Body.Code = string(link.Code)
	resp.Body.ShortURL = link.Link
	resp.Body.Destination = link.Destination
	resp.Body.CreatedAt = link.CreatedAt
	resp.Body.ExpiresAt = link.ExpiresAt

	return resp, nil
}

func (h *URLHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	links, err := h.service.List(ctx)
	if err != nil {
		return nil, h.toHTTPError(ctx, "list links", err)
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkBody, 0, len(links))

	for _, link := range links {
		resp.Body.Links = append(resp.Body.Links, LinkBody{
			Code:        string(link.Code),
			Destination: link.Destination,
			CreatedAt:   link.CreatedAt,
			ExpiresAt:   link.ExpiresAt,
			Hits:        link.Hits,
		})
	}

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	destination, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError(ctx, "resolve short url", err)
	}

	meta := RequestMetaFromContext(ctx)
	h.logger.Debug("redirecting",
		zap.String("code", req.Code),
		zap.String("clientIp", meta.ClientIP),
		zap.String("userAgent", meta.UserAgent),
		zap.String("referrer", meta.Referrer),
	)

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: destination,
	}, nil
}

// toHTTPError maps core errors to API errors. Anything unrecognised is
// logged and reported as a 500 without leaking details.
func (h *URLHandler) toHTTPError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("invalid url: must be an absolute url with scheme and host")
	case errors.Is(err, shortener.ErrInvalidAlias):
		return huma.Error400BadRequest("invalid alias: must be 1-15 letters or digits")
	case errors.Is(err, shortener.ErrAliasTaken):
		return huma.Error409Conflict("alias already in use")
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.Is(err, shortener.ErrExpired):
		return huma.Error410Gone("short url has expired")
	}

	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("clientIp", RequestMetaFromContext(ctx).ClientIP),
		zap.Error(err),
	)

	return huma.Error500InternalServerError("failed to " + op)
}
