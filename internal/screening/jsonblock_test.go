package screening

import (
	"errors"
	"testing"
)

func TestParseCandidateBlockValid(t *testing.T) {
	reply := "Thanks! Here is what I have so far:\n" +
		"```json\n{\"Name\": \"Ada Lovelace\", \"Email\": \"ada@example.com\"}\n```\n" +
		"Shall we continue?"
	fields, err := parseCandidateBlock(reply)
	if err != nil {
		t.Fatalf("parseCandidateBlock() error = %v", err)
	}
	if fields["Name"] != "Ada Lovelace" || fields["Email"] != "ada@example.com" {
		t.Fatalf("fields = %+v", fields)
	}
}

func TestParseCandidateBlockAbsent(t *testing.T) {
	_, err := parseCandidateBlock("No structured data here, just prose.")
	if !errors.Is(err, errNoBlock) {
		t.Fatalf("error = %v, want errNoBlock", err)
	}
}

func TestParseCandidateBlockUnterminated(t *testing.T) {
	_, err := parseCandidateBlock("```json\n{\"Name\": \"Ada\"}")
	if err == nil || errors.Is(err, errNoBlock) {
		t.Fatalf("error = %v, want a malformed-block failure", err)
	}
}

func TestParseCandidateBlockMultipleBlocks(t *testing.T) {
	reply := "```json\n{\"Name\": \"A\"}\n```\nand\n```json\n{\"Name\": \"B\"}\n```"
	_, err := parseCandidateBlock(reply)
	if err == nil || errors.Is(err, errNoBlock) {
		t.Fatalf("error = %v, want an ambiguity failure", err)
	}
}

func TestParseCandidateBlockBadJSON(t *testing.T) {
	_, err := parseCandidateBlock("```json\n{not json}\n```")
	if err == nil || errors.Is(err, errNoBlock) {
		t.Fatalf("error = %v, want a malformed-block failure", err)
	}
}

func TestParseCandidateBlockRejectsNonStringValues(t *testing.T) {
	_, err := parseCandidateBlock("```json\n{\"Name\": \"Ada\", \"Years\": 5}\n```")
	if err == nil || errors.Is(err, errNoBlock) {
		t.Fatalf("error = %v, want a malformed-block failure for non-string values", err)
	}
}
