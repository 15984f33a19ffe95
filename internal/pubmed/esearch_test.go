// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/pdiddy/pubharvest/pkg/types"
)

func TestSearchSinglePage(t *testing.T) {
	var gotTerm, gotMin, gotMax string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		gotMin = r.URL.Query().Get("mindate")
		gotMax = r.URL.Query().Get("maxdate")
		fmt.Fprint(w, `<?xml version="1.0" ?>
<eSearchResult><Count>3</Count><RetMax>3</RetMax><RetStart>0</RetStart>
<IdList><Id>101</Id><Id>102</Id><Id>103</Id></IdList></eSearchResult>`)
	}))
	defer ts.Close()
	restore := overrideBase(ts.URL)
	defer restore()

	c := NewClient(types.EntrezConfig{})
	ids, err := c.Search(context.Background(), "crispr", SearchOptions{MinDate: "2023/01/01", MaxDate: "2023/12/31"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(ids) != 3 || ids[0] != "101" {
		t.Errorf("ids = %v, want [101 102 103]", ids)
	}
	if gotTerm != "crispr" {
		t.Errorf("term = %q", gotTerm)
	}
	if gotMin != "2023/01/01" || gotMax != "2023/12/31" {
		t.Errorf("date range = %q..%q", gotMin, gotMax)
	}
}

func TestSearchPagination(t *testing.T) {
	// 5 total IDs served in pages of 2.
	all := []string{"1", "2", "3", "4", "5"}
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		start, _ := strconv.Atoi(r.URL.Query().Get("retstart"))
		retmax, _ := strconv.Atoi(r.URL.Query().Get("retmax"))
		end := start + retmax
		if end > len(all) {
			end = len(all)
		}
		var b strings.Builder
		fmt.Fprintf(&b, `<eSearchResult><Count>%d</Count><RetStart>%d</RetStart><IdList>`, len(all), start)
		for _, id := range all[start:end] {
			fmt.Fprintf(&b, "<Id>%s</Id>", id)
		}
		b.WriteString(`</IdList></eSearchResult>`)
		fmt.Fprint(w, b.String())
	}))
	defer ts.Close()
	restore := overrideBase(ts.URL)
	defer restore()

	c := NewClient(types.EntrezConfig{APIKey: "k"})
	ids, err := c.Search(context.Background(), "anything", SearchOptions{RetMax: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(ids) != 5 {
		t.Fatalf("len(ids) = %d, want 5", len(ids))
	}
	for i, id := range all {
		if ids[i] != id {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], id)
		}
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3 pages", requests)
	}
}

func TestSearchEmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<eSearchResult><Count>0</Count><IdList></IdList></eSearchResult>`)
	}))
	defer ts.Close()
	restore := overrideBase(ts.URL)
	defer restore()

	c := NewClient(types.EntrezConfig{})
	ids, err := c.Search(context.Background(), "no-such-term", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none", ids)
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	c := NewClient(types.EntrezConfig{})
	if _, err := c.Search(context.Background(), "", SearchOptions{}); err == nil {
		t.Error("empty term should fail")
	}
}

func TestSearchMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<eSearchResult><Count>`)
	}))
	defer ts.Close()
	restore := overrideBase(ts.URL)
	defer restore()

	c := NewClient(types.EntrezConfig{})
	if _, err := c.Search(context.Background(), "x", SearchOptions{}); err == nil {
		t.Error("malformed XML should fail")
	}
}
