package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// DurationText is the validity in minutes as the client sent it. Any JSON
// value is accepted: numbers and strings keep their text, anything else
// becomes empty and so falls back to the default duration.
type DurationText string

func (d *DurationText) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch t := v.(type) {
	case string:
		*d = DurationText(t)
	case json.Number:
		*d = DurationText(t.String())
	default:
		*d = ""
	}

	return nil
}

// Schema leaves the type open so no duration is rejected by validation.
func (DurationText) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Validity in minutes as a number or numeric text. Missing, non-numeric or non-positive values mean 30.",
		Examples:    []any{60},
		Nullable:    true,
	}
}

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL      string `doc:"The URL to shorten"                          example:"https://example.com/very/long/path" json:"url"`
		Duration DurationText `json:"duration,omitempty"`
		Alias    string `doc:"Custom short code, 1-15 letters or digits"   example:"promo2025"                          json:"alias,omitempty"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		Code        string    `doc:"The short code"            example:"abc123"                             json:"code"`
		ShortURL    string    `doc:"The full short URL"        example:"http://localhost:8888/abc123"       json:"shortUrl"`
		Destination string    `doc:"The destination URL"       example:"https://example.com/very/long/path" json:"destination"`
		CreatedAt   time.Time `doc:"When the link was created" json:"createdAt"`
		ExpiresAt   time.Time `doc:"When the link stops working" json:"expiresAt"`
	}
}

// LinkBody describes one stored short link.
type LinkBody struct {
	Code        string    `doc:"The short code"        json:"code"`
	Destination string    `doc:"The destination URL"   json:"destination"`
	CreatedAt   time.Time `doc:"Creation time"         json:"createdAt"`
	ExpiresAt   time.Time `doc:"Expiry time"           json:"expiresAt"`
	Hits        int64     `doc:"Successful redirects"  json:"hits"`
}

// ListLinksResponse lists every stored short link in creation order.
type ListLinksResponse struct {
	Body struct {
		Links []LinkBody `json:"links"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse carries the redirect status and target.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
