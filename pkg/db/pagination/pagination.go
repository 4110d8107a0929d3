package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

var ErrInvalidPageToken = errors.New("invalid_page_token")

type Pagination struct {
	PageToken string `form:"pageToken"`
	PageSize  int    `form:"pageSize" binding:"omitempty,gte=1,lte=250"`
}

// Cursor points at the last row of the previous page. Rows are listed by
// descending snowflake id, which follows creation order.
type Cursor struct {
	ID string `json:"id"`
}

type PageInfo struct {
	NextPageToken string `json:"nextPageToken,omitempty"`
	HasMore       bool   `json:"hasMore"`
}

func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.PageSize
	}
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, ErrInvalidPageToken
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, ErrInvalidPageToken
	}
	if _, err := strconv.ParseInt(cursor.ID, 10, 64); err != nil {
		return nil, ErrInvalidPageToken
	}

	return &cursor, nil
}

// Apply returns a scope that orders by id descending, skips past the page
// token and fetches one extra row so BuildCursorPageInfo can detect more.
func Apply(p Pagination, idColumn string) (func(*gorm.DB) *gorm.DB, error) {
	var cursor *Cursor
	if strings.TrimSpace(p.PageToken) != "" {
		decoded, err := DecodeCursor(p.PageToken)
		if err != nil {
			return nil, err
		}
		cursor = decoded
	}

	limit := p.Limit()
	return func(db *gorm.DB) *gorm.DB {
		if cursor != nil {
			db = db.Where(idColumn+" < ?", cursor.ID)
		}
		return db.Order(idColumn + " DESC").Limit(limit + 1)
	}, nil
}

// BuildCursorPageInfo trims the look-ahead row and reports the next token.
func BuildCursorPageInfo[T any](data []*T, limit int, extractID func(*T) string) ([]*T, *PageInfo) {
	if len(data) == 0 {
		return data, &PageInfo{HasMore: false}
	}

	if len(data) <= limit {
		return data, &PageInfo{HasMore: false}
	}

	data = data[:limit]
	token, err := EncodeCursor(Cursor{ID: extractID(data[len(data)-1])})
	if err != nil {
		return data, &PageInfo{HasMore: false}
	}

	return data, &PageInfo{HasMore: true, NextPageToken: token}
}
