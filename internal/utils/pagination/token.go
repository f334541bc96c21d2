package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// Ledger listings paginate on the entry id, which is assigned in strictly
// increasing creation order. An id cursor stays stable while new entries are
// committed concurrently: rows already returned can neither shift nor repeat,
// unlike offset pagination.

// EncodeEntryIDToken creates a base64 encoded cursor from the last entry id
// included in the current page.
func EncodeEntryIDToken(entryID int64) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(entryID, 10)))
}

// DecodeEntryIDToken parses a cursor back into the entry id it points at.
func DecodeEntryIDToken(token string) (int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	entryID, err := strconv.ParseInt(string(decodedBytes), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (entry id parse): %w", err)
	}
	return entryID, nil
}
