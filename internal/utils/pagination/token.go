package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

const timeFormat = time.RFC3339Nano

// EncodeMovementToken creates a base64 encoded token pointing just after the
// given movement in (timestamp DESC, id DESC) order.
func EncodeMovementToken(m domain.Movement) string {
	tokenStr := fmt.Sprintf("%s|%s", m.Timestamp.UTC().Format(timeFormat), m.MovementID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMovementToken parses a token produced by EncodeMovementToken.
func DecodeMovementToken(token string) (*domain.MovementCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}

	ts, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (timestamp parse): %w", err)
	}

	return &domain.MovementCursor{Timestamp: ts, MovementID: parts[1]}, nil
}
