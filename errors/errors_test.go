package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestLoadErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *LoadError
		want string
	}{
		{
			name: "with location",
			err:  &LoadError{Code: ErrDuplicateID, Message: `duplicate id "x"`, SourceID: "scene.xml", Line: 4, Column: 10},
			want: `Error while loading "scene.xml" (at line 4, col 10): duplicate id "x".`,
		},
		{
			name: "without location",
			err:  &LoadError{Code: ErrSyntax, Message: "malformed document", SourceID: "scene.xml"},
			want: `Error while loading "scene.xml" (at byte offset 0): malformed document.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocateAttachesOnce(t *testing.T) {
	inner := New(ErrSemantic, "invalid lookat transformation")
	outer := Locate(inner, "inner.xml", 3, 5)

	var le *LoadError
	if !errors.As(outer, &le) {
		t.Fatalf("Locate() did not produce a *LoadError")
	}
	if le.SourceID != "inner.xml" || le.Line != 3 || le.Column != 5 {
		t.Fatalf("Locate() = %+v, want inner.xml:3:5", le)
	}

	// A second Locate from an outer include boundary must not overwrite
	// the innermost location already attached.
	again := Locate(outer, "outer.xml", 99, 1)
	var le2 *LoadError
	if !errors.As(again, &le2) {
		t.Fatalf("second Locate() did not produce a *LoadError")
	}
	if le2.SourceID != "inner.xml" || le2.Line != 3 {
		t.Fatalf("second Locate() overwrote location: %+v", le2)
	}
}

func TestLocateWrapsPlainError(t *testing.T) {
	plain := fmt.Errorf("boom")
	got := Locate(plain, "scene.xml", 1, 1)

	var le *LoadError
	if !errors.As(got, &le) {
		t.Fatalf("Locate() did not wrap plain error into *LoadError")
	}
	if le.SourceID != "scene.xml" || le.Message != "boom" {
		t.Fatalf("Locate() = %+v", le)
	}
}

func TestListError(t *testing.T) {
	one := &LoadError{Code: ErrDuplicateID, Message: "a", SourceID: "s"}
	two := &LoadError{Code: ErrUnknownRef, Message: "b", SourceID: "s"}

	if got, want := (List{one}).Error(), one.Error(); got != want {
		t.Fatalf("single List.Error() = %q, want %q", got, want)
	}
	want := fmt.Sprintf("%s (and 1 more)", one.Error())
	if got := (List{one, two}).Error(); got != want {
		t.Fatalf("multi List.Error() = %q, want %q", got, want)
	}
}

func TestWrapPreservesUnwrap(t *testing.T) {
	cause := fmt.Errorf("plugin create failed")
	wrapped := Wrap(ErrInstantiate, cause, "could not instantiate %s plugin", "bsdf")
	if !errors.Is(wrapped, cause) {
		t.Fatalf("errors.Is(wrapped, cause) = false, want true")
	}
}
