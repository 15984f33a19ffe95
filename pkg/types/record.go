// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubharvest pipeline.
package types

// Author holds one author name and affiliation, in article order.
type Author struct {
	// Name is the author's full name as given by PubMed.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the free-text affiliation string, possibly empty.
	Affiliation string `json:"affiliation" yaml:"affiliation"`
}

// Record is the normalized result of one successful PubMed fetch.
type Record struct {
	// PMID is the PubMed identifier the record was fetched for.
	PMID string `json:"pmid" yaml:"pmid"`

	// DOI is the article DOI, empty when PubMed does not carry one.
	DOI string `json:"doi" yaml:"doi"`

	// PMCID is the PubMed Central identifier, empty when not deposited.
	PMCID string `json:"pmc_id" yaml:"pmc_id"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract text with labelled sections joined.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Keywords lists author keywords in source order.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Authors lists author-affiliation pairs in article order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Journal is the journal title.
	Journal string `json:"journal" yaml:"journal"`

	// PubDate is the publication date as a display string (e.g. "2023 Jun 15");
	// PubMed dates are too irregular to parse into time.Time reliably.
	PubDate string `json:"pub_date" yaml:"pub_date"`
}

// Usable reports whether the record passes the hard persistence filter:
// a record without an abstract or a DOI is dropped before storage.
// A fetch that produced an unusable record is still a successful fetch.
func (r *Record) Usable() bool {
	return r.Abstract != "" && r.DOI != ""
}

// FirstAuthor returns the first author-affiliation pair, or a zero Author
// when the record carries no authors.
func (r *Record) FirstAuthor() Author {
	if len(r.Authors) == 0 {
		return Author{}
	}
	return r.Authors[0]
}

// LastAuthor returns the last author-affiliation pair, conventionally the
// corresponding author, or a zero Author when the record carries none.
func (r *Record) LastAuthor() Author {
	if len(r.Authors) == 0 {
		return Author{}
	}
	return r.Authors[len(r.Authors)-1]
}
