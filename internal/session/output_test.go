package session

import (
	"encoding/json"
	"testing"
)

func TestParseToolOutput_Object(t *testing.T) {
	out, ok := ParseToolOutput(json.RawMessage(`{"success":true,"previewUrl":"https://p","url":"https://u"}`))
	if !ok {
		t.Fatalf("expected valid output")
	}
	if got := out.BestURL(); got != "https://p" {
		t.Fatalf("previewUrl should win: got=%s", got)
	}
}

func TestParseToolOutput_DoubleEncodedString(t *testing.T) {
	inner := `{"success":true,"sandboxId":"sbx-1","url":"https://u"}`
	quoted, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}
	out, ok := ParseToolOutput(quoted)
	if !ok {
		t.Fatalf("expected valid output from string-encoded payload")
	}
	if out.SandboxID != "sbx-1" || out.BestURL() != "https://u" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestParseToolOutput_Rejections(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"garbage":        `not json`,
		"string garbage": `"{broken"`,
		"array":          `[1,2,3]`,
		"scalar":         `42`,
		"failed":         `{"success":false,"previewUrl":"https://x"}`,
	}
	for name, raw := range cases {
		if _, ok := ParseToolOutput(json.RawMessage(raw)); ok {
			t.Fatalf("%s: expected rejection for %q", name, raw)
		}
	}
}

func TestParseToolOutput_MissingSuccessIsValid(t *testing.T) {
	out, ok := ParseToolOutput(json.RawMessage(`{"projectName":"demo","filesReady":false}`))
	if !ok {
		t.Fatalf("payload without success flag should be valid")
	}
	if out.ProjectName != "demo" || out.FilesReady == nil || *out.FilesReady {
		t.Fatalf("unexpected output: %+v", out)
	}
}
