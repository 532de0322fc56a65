package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor is the position of the last row of a page of transactions, which are
// ordered by transaction date, creation time and ID, all descending.
type Cursor struct {
	TransactionDate time.Time
	CreatedAt       time.Time
	TransactionID   string
}

// After reports whether a row sorts strictly after the cursor in that order.
func (c Cursor) After(transactionDate, createdAt time.Time, transactionID string) bool {
	if !transactionDate.Equal(c.TransactionDate) {
		return transactionDate.Before(c.TransactionDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return transactionID < c.TransactionID
}

// EncodeToken creates an opaque base64 token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := strings.Join([]string{
		c.TransactionDate.UTC().Format(timeFormat),
		c.CreatedAt.UTC().Format(timeFormat),
		c.TransactionID,
	}, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	txnDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return Cursor{TransactionDate: txnDate, CreatedAt: createdAt, TransactionID: parts[2]}, nil
}
