package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b-1", BuildID("b-1")},
		{"Path", KeyPath, "guide/intro.md", Path("guide/intro.md")},
		{"Output", KeyOutput, "guide/intro.html", Output("guide/intro.html")},
		{"Input", KeyInput, "docs", Input("docs")},
		{"Hash", KeyHash, "abc", Hash("abc")},
		{"Status", KeyStatus, "rendered", Status("rendered")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Addr", KeyAddr, "localhost:5000", Addr("localhost:5000")},
		{"Subject", KeySubject, "mdwiki.builds", Subject("mdwiki.builds")},
		{"UserAgent", KeyUserAgent, "curl/8", UserAgent("curl/8")},
		{"RemoteAddr", KeyRemote, "127.0.0.1:4242", RemoteAddr("127.0.0.1:4242")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr %v", a)
	}
	if a := Workers(8); a.Key != KeyWorkers || a.Value.Int64() != 8 {
		t.Fatalf("unexpected workers attr %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("unexpected duration attr %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
