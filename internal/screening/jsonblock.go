package screening

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	blockOpen  = "```json"
	blockClose = "```"
)

// errNoBlock distinguishes "reply carries no structured data" (fall back to
// utterance extraction) from a malformed block (warn, no fallback).
var errNoBlock = errors.New("no structured data block")

// parseCandidateBlock locates the single fenced structured-data block in an
// assistant reply and decodes it as a flat field-to-string mapping. Any
// ambiguity is a defined failure: more than one opening marker, a missing
// closing marker, or content that is not a flat string map.
func parseCandidateBlock(reply string) (map[string]string, error) {
	first := strings.Index(reply, blockOpen)
	if first < 0 {
		return nil, errNoBlock
	}
	if strings.Contains(reply[first+len(blockOpen):], blockOpen) {
		return nil, errors.New("multiple structured data blocks")
	}

	rest := reply[first+len(blockOpen):]
	end := strings.Index(rest, blockClose)
	if end < 0 {
		return nil, errors.New("unterminated structured data block")
	}

	body := strings.TrimSpace(rest[:end])
	var fields map[string]string
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("malformed structured data block: %w", err)
	}
	return fields, nil
}
