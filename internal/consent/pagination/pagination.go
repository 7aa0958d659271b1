// Package pagination holds the page shape shared by every consent store and
// the offset engine used by the in-memory store.
package pagination

import (
	"fmt"
	"strconv"

	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
)

// ListPage is one page of a list query. NextPageToken is set iff more
// results remain.
type ListPage[T any] struct {
	ResultsOnPage []T     `json:"data"`
	NextPageToken *string `json:"nextPageToken,omitempty"`
}

// ParseOffsetToken reads an offset token. A nil token means "from the start".
// Any token that is not a base-10 integer is rejected; range checks happen
// in Paginate.
func ParseOffsetToken(token *string) (*int, error) {
	if token == nil {
		return nil, nil
	}
	offset, err := strconv.Atoi(*token)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput,
			fmt.Sprintf("Received invalid pagination token %s, expected an integer value", *token))
	}
	return &offset, nil
}

// FormatOffsetToken is the inverse of ParseOffsetToken.
func FormatOffsetToken(offset int) *string {
	token := strconv.Itoa(offset)
	return &token
}

// Paginate slices an ordered result set starting at offset. A nil limit
// returns everything from offset on. An offset outside [0, len(items))
// yields an empty page with no next token rather than an error.
func Paginate[T any](items []T, limit *int, offset *int) ListPage[T] {
	size := len(items)
	if size == 0 {
		return emptyPage[T]()
	}
	start := 0
	if offset != nil {
		if *offset < 0 || *offset >= size {
			return emptyPage[T]()
		}
		start = *offset
	}

	end := size
	// compared without adding so huge limits cannot overflow
	if limit != nil && *limit < size-start {
		end = start + *limit
	}

	page := ListPage[T]{ResultsOnPage: make([]T, end-start)}
	copy(page.ResultsOnPage, items[start:end])
	if end < size {
		page.NextPageToken = FormatOffsetToken(end)
	}
	return page
}

func emptyPage[T any]() ListPage[T] {
	return ListPage[T]{ResultsOnPage: []T{}}
}
