package connectors

import (
	"bytes"
	"encoding/json"
	"fmt"

	"swiftjobs/src/exception"
	"swiftjobs/src/model"
)

// yfinanceNotice is printed by the quote scripts' library ahead of the payload on some versions.
const yfinanceNotice = "YF.download() has changed argument auto_adjust default to True"

// ParseCurrent extracts the current-price snapshot array from raw quote command output.
func ParseCurrent(out []byte) ([]model.Quote, error) {
	payload, err := extractJSON(out, '[', ']')
	if err != nil {
		return nil, err
	}

	var quotes []model.Quote
	if err := json.Unmarshal(payload, &quotes); err != nil {
		return nil, fmt.Errorf("%w: current quotes: %v", exception.ErrParse, err)
	}
	return quotes, nil
}

// ParseHistory extracts the historical series object from raw quote command output.
func ParseHistory(out []byte) (*model.QuoteHistory, error) {
	payload, err := extractJSON(out, '{', '}')
	if err != nil {
		return nil, err
	}

	var history model.QuoteHistory
	if err := json.Unmarshal(payload, &history); err != nil {
		return nil, fmt.Errorf("%w: quote history: %v", exception.ErrParse, err)
	}
	return &history, nil
}

// extractJSON returns the outermost open..close span of the output. The scripts sometimes emit
// their payload as a JSON string literal, in which case the span is unescaped once.
func extractJSON(out []byte, open, close byte) ([]byte, error) {
	cleaned := bytes.TrimSpace(bytes.ReplaceAll(out, []byte(yfinanceNotice), nil))

	start := bytes.IndexByte(cleaned, open)
	end := bytes.LastIndexByte(cleaned, close)
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("%w: no %c...%c span in output", exception.ErrParse, open, close)
	}

	span := cleaned[start : end+1]
	if json.Valid(span) {
		return span, nil
	}

	var unquoted string
	literal := append(append([]byte{'"'}, span...), '"')
	if err := json.Unmarshal(literal, &unquoted); err == nil && json.Valid([]byte(unquoted)) {
		return []byte(unquoted), nil
	}

	return nil, fmt.Errorf("%w: invalid JSON near %q", exception.ErrParse, snippet(span, 120))
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
