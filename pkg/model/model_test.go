package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestPage_MediaID(t *testing.T) {
	p := Page{ID: 12345, Namespace: NamespaceFile, Title: "File:Example.jpg"}
	if got := p.MediaID(); got != "M12345" {
		t.Errorf("MediaID() = %q, want M12345", got)
	}
}

func TestTitles(t *testing.T) {
	pages := []Page{{ID: 2, Title: "File:B.jpg"}, {ID: 1, Title: "File:A.jpg"}}
	got := Titles(pages)
	if len(got) != 2 || got[0] != "File:B.jpg" || got[1] != "File:A.jpg" {
		t.Errorf("Titles() = %v, want order preserved", got)
	}
	if got := Titles(nil); len(got) != 0 {
		t.Errorf("Titles(nil) = %v, want empty", got)
	}
}

func TestMissingFieldError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", MissingField("categories", "File:Gone.jpg"))

	if !errors.Is(err, ErrMissingField) {
		t.Fatal("expected errors.Is to match ErrMissingField")
	}
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatal("expected errors.As to find *MissingFieldError")
	}
	if mf.Field != "categories" {
		t.Errorf("Field = %q, want categories", mf.Field)
	}
	if want := `missing field "categories" for File:Gone.jpg`; mf.Error() != want {
		t.Errorf("Error() = %q, want %q", mf.Error(), want)
	}
}
