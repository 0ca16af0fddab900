package testutil

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses the provided HTML payload into a goquery document for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// ParseResponse drains and closes the response body and parses it as HTML.
func ParseResponse(t testing.TB, resp *http.Response) *goquery.Document {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	resp.Body.Close()
	return ParseHTML(t, body)
}

// Attr returns the named attribute and fails the test when it is missing.
func Attr(t testing.TB, sel *goquery.Selection, name string) string {
	t.Helper()

	value, ok := sel.Attr(name)
	if !ok {
		t.Fatalf("attribute %q not found", name)
	}
	return value
}
