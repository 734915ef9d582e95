package hunlint

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestGenerateAll(t *testing.T) {
	d := mustAffix(t, foldAffix)
	entries := mustEntries(t, d, "foo/AB", "bar/Z", "baz/A", "qux")

	var stems []string
	var words [][]string
	var failed []int
	err := NewGenerator(d, WithWorkers(3)).GenerateAll(context.Background(), entries,
		func(entry *DictionaryEntry, prods []Production, err error) {
			stems = append(stems, entry.Stem)
			words = append(words, Words(prods))
			var lerr *LineError
			if errors.As(err, &lerr) {
				failed = append(failed, lerr.Line)
			}
		})
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	if want := []string{"foo", "bar", "baz", "qux"}; !slices.Equal(stems, want) {
		t.Errorf("order = %q, want %q", stems, want)
	}
	if want := []int{2}; !slices.Equal(failed, want) {
		t.Errorf("failed lines = %v, want %v", failed, want)
	}
	if want := []string{"baz", "bazs", "unbazs"}; !slices.Equal(words[2], want) {
		t.Errorf("words of baz = %q, want %q", words[2], want)
	}
	if want := []string{"qux"}; !slices.Equal(words[3], want) {
		t.Errorf("words of qux = %q, want %q", words[3], want)
	}
}

func TestGenerateAllCancelled(t *testing.T) {
	d := mustAffix(t, foldAffix)
	entries := mustEntries(t, d, "foo/AB", "bar/A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewGenerator(d).GenerateAll(ctx, entries, func(*DictionaryEntry, []Production, error) { called = true })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateAll error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("callback ran after cancellation")
	}
}

func TestLineNumber(t *testing.T) {
	if got := lineNumber(&DictionaryEntry{Number: 7}, 0); got != 7 {
		t.Errorf("lineNumber = %d, want 7", got)
	}
	if got := lineNumber(&DictionaryEntry{}, 4); got != 5 {
		t.Errorf("lineNumber = %d, want 5", got)
	}
}
