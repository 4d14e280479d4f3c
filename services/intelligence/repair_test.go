package ai

import "testing"

type extraction struct {
	AttendeeNames []string `json:"attendee_names"`
	RequestedDate string   `json:"requested_date"`
}

func TestDecodeJSONDirect(t *testing.T) {
	var out extraction
	err := DecodeJSON(`{"attendee_names":["John","Sarah"],"requested_date":"2025-08-13"}`, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.AttendeeNames) != 2 || out.RequestedDate != "2025-08-13" {
		t.Fatalf("out = %+v", out)
	}
}

func TestDecodeJSONFencedWithLanguageTag(t *testing.T) {
	raw := "```json\n{\"attendee_names\":[\"John\"],\"requested_date\":\"2025-08-13\"}\n```"
	var out extraction
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.AttendeeNames) != 1 || out.AttendeeNames[0] != "John" {
		t.Fatalf("out = %+v", out)
	}
}

func TestDecodeJSONFencedPlain(t *testing.T) {
	raw := "```\n{\"requested_date\":\"2025-09-01\"}\n```"
	var out extraction
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RequestedDate != "2025-09-01" {
		t.Fatalf("out = %+v", out)
	}
}

func TestDecodeJSONSurroundingWhitespace(t *testing.T) {
	raw := "\n  ```json\n{\"requested_date\":\"2025-09-01\"}\n```  \n"
	var out extraction
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RequestedDate != "2025-09-01" {
		t.Fatalf("out = %+v", out)
	}
}

func TestDecodeJSONGarbageErrors(t *testing.T) {
	cases := []string{
		"I think you should meet at noon!",
		"```json\nnot json at all\n```",
		"",
	}
	for _, raw := range cases {
		var out extraction
		if err := DecodeJSON(raw, &out); err == nil {
			t.Errorf("DecodeJSON(%q) succeeded, want error", raw)
		}
	}
}

func TestStripCodeFencePassthrough(t *testing.T) {
	in := `{"status":"success"}`
	if got := StripCodeFence(in); got != in {
		t.Fatalf("unfenced input altered: %q", got)
	}
}
