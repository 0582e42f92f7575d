package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "hook order",
			code:    "RE001",
			wantMsg: "Hook order changed between renders",
			wantCat: CategoryHooks,
		},
		{
			name:    "renderer",
			code:    "RE003",
			wantMsg: "Renderer contract violation",
			wantCat: CategoryRenderer,
		},
		{
			name:    "config",
			code:    "RE101",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "RE999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "node %q not found", "Counter")
	if err.Message != `node "Counter" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %q, want %q", err.Category, CategoryRuntime)
	}
}

func TestReactorError_Error(t *testing.T) {
	err := New("RE005")
	if got, want := err.Error(), "RE005: Unknown mounted instance"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := stderrors.New("boom")
	err = New("RE003").WithPath([]string{"App", "Button"}).Wrap(cause)
	want := "RE003: Renderer contract violation at App > Button: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	plain := &ReactorError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("RE001").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	var re *ReactorError
	if !stderrors.As(stderrors.Join(stderrors.New("other"), err), &re) {
		t.Fatal("errors.As should find ReactorError in a joined error")
	}
	if re.Code != "RE001" {
		t.Errorf("Code = %q", re.Code)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "RE003") != nil {
		t.Error("FromError(nil) should be nil")
	}

	existing := New("RE001")
	if FromError(existing, "RE003") != existing {
		t.Error("FromError should keep an existing ReactorError")
	}

	wrapped := FromError(stderrors.New("io"), "RE003")
	if wrapped.Code != "RE003" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestCode(t *testing.T) {
	if Code(stderrors.New("plain")) != "" {
		t.Error("plain error should have no code")
	}
	if Code(New("RE004")) != "RE004" {
		t.Error("Code should return RE004")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("RE001").
		WithPath([]string{"App", "Counter"}).
		WithDetail("slot 1 changed").
		Wrap(stderrors.New("expected State[int], got Effect"))
	out := err.Format()

	for _, want := range []string{
		"ERROR RE001: Hook order changed between renders",
		"App > Counter",
		"slot 1 changed",
		"Cause: expected State[int], got Effect",
		"Hint: Call hooks unconditionally",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("RE101").WithDetail("devtools.addr is empty")

	var got map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &got); e != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", e)
	}
	if got["code"] != "RE101" || got["category"] != "config" || got["detail"] != "devtools.addr is empty" {
		t.Errorf("FormatJSON = %v", got)
	}
}

func TestFprintJoined(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.Join(New("RE001"), stderrors.New("plain failure")))
	out := buf.String()
	if !strings.Contains(out, "RE001") || !strings.Contains(out, "ERROR: plain failure") {
		t.Errorf("Fprint output:\n%s", out)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
