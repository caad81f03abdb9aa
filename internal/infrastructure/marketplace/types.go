// Package marketplace talks to the Wildberries content API: cursor-paged
// card listing with retry/backoff, single and batch card lookups, and an
// optional Redis cache in front of the lookups.
package marketplace

import (
	"fmt"
	"strings"
)

// ProductCard is a marketplace content card as returned by the cards list
// endpoint. Only the fields the workflow consumes are mapped.
type ProductCard struct {
	NmID            int64                `json:"nmID"`
	IMTID           int64                `json:"imtID"`
	VendorCode      string               `json:"vendorCode"`
	Brand           string               `json:"brand"`
	Title           string               `json:"title"`
	SubjectName     string               `json:"subjectName"`
	Photos          []CardPhoto          `json:"photos"`
	Sizes           []CardSize           `json:"sizes"`
	Characteristics []CardCharacteristic `json:"characteristics"`
}

// CardPhoto carries the rendition URLs of one card photo.
type CardPhoto struct {
	Big    string `json:"big"`
	Square string `json:"square"`
}

// FirstPhotoURL returns the big rendition of the first photo, if any.
func (c *ProductCard) FirstPhotoURL() string {
	if len(c.Photos) == 0 {
		return ""
	}
	if c.Photos[0].Big != "" {
		return c.Photos[0].Big
	}
	return c.Photos[0].Square
}

// CardSize is one size row of a card with its SKU barcodes.
type CardSize struct {
	TechSize string   `json:"techSize"`
	WBSize   string   `json:"wbSize"`
	Skus     []string `json:"skus"`
}

// CardCharacteristic is a raw card attribute. The marketplace returns the
// value as a string, a number or an array depending on the attribute.
type CardCharacteristic struct {
	ID    int         `json:"id"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// ValueString flattens the attribute value into a display string; array
// values are joined with commas.
func (c CardCharacteristic) ValueString() string {
	switch v := c.Value.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

type cardsRequest struct {
	Settings requestSettings `json:"settings"`
}

type requestSettings struct {
	Filter requestFilter `json:"filter"`
	Cursor requestCursor `json:"cursor"`
}

type requestFilter struct {
	WithPhoto int `json:"withPhoto"`
}

type requestCursor struct {
	Limit     int    `json:"limit"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	NmID      int64  `json:"nmID,omitempty"`
}

type cardsResponse struct {
	Cards  []ProductCard  `json:"cards"`
	Cursor responseCursor `json:"cursor"`
}

type responseCursor struct {
	UpdatedAt string `json:"updatedAt"`
	NmID      int64  `json:"nmID"`
	Total     int    `json:"total"`
}
