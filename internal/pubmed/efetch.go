// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/pubharvest/pkg/types"
)

// PubMed EFetch XML structures (PubmedArticleSet subset).
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
	Data     pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID     string      `xml:"PMID"`
	Article  articleMeta `xml:"Article"`
	Keywords []string    `xml:"KeywordList>Keyword"`
}

type articleMeta struct {
	Title    string         `xml:"ArticleTitle"`
	Abstract []abstractText `xml:"Abstract>AbstractText"`
	Journal  journalMeta    `xml:"Journal"`
	Authors  []authorMeta   `xml:"AuthorList>Author"`
}

type abstractText struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type journalMeta struct {
	Title   string      `xml:"Title"`
	PubDate pubDateMeta `xml:"JournalIssue>PubDate"`
}

type pubDateMeta struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type authorMeta struct {
	LastName       string   `xml:"LastName"`
	ForeName       string   `xml:"ForeName"`
	CollectiveName string   `xml:"CollectiveName"`
	Affiliations   []string `xml:"AffiliationInfo>Affiliation"`
}

type pubmedData struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
}

type articleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

// FetchRecord retrieves one article via efetch.fcgi and normalizes it into
// a Record. A response without a matching article is an error; a record
// missing abstract or DOI is not (usability is the sink's concern).
func (c *Client) FetchRecord(ctx context.Context, pmid string) (*types.Record, error) {
	params := url.Values{
		"id":      {pmid},
		"retmode": {"xml"},
	}

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, err
	}

	var set articleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	if len(set.Articles) == 0 {
		return nil, fmt.Errorf("no article found for PMID %s", pmid)
	}

	return normalize(pmid, set.Articles[0]), nil
}

// normalize flattens the EFetch XML into the pipeline's Record shape.
func normalize(pmid string, a pubmedArticle) *types.Record {
	r := &types.Record{
		PMID:     pmid,
		Title:    strings.TrimSpace(a.Citation.Article.Title),
		Journal:  strings.TrimSpace(a.Citation.Article.Journal.Title),
		Abstract: joinAbstract(a.Citation.Article.Abstract),
		PubDate:  formatPubDate(a.Citation.Article.Journal.PubDate),
	}
	if a.Citation.PMID != "" {
		r.PMID = a.Citation.PMID
	}

	for _, id := range a.Data.ArticleIDs {
		switch id.Type {
		case "doi":
			r.DOI = strings.TrimSpace(id.Value)
		case "pmc":
			r.PMCID = strings.TrimSpace(id.Value)
		}
	}

	for _, kw := range a.Citation.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			r.Keywords = append(r.Keywords, kw)
		}
	}

	for _, au := range a.Citation.Article.Authors {
		name := strings.TrimSpace(au.ForeName + " " + au.LastName)
		if name == "" {
			name = strings.TrimSpace(au.CollectiveName)
		}
		if name == "" {
			continue
		}
		affiliation := ""
		if len(au.Affiliations) > 0 {
			affiliation = strings.TrimSpace(au.Affiliations[0])
		}
		r.Authors = append(r.Authors, types.Author{Name: name, Affiliation: affiliation})
	}

	return r
}

// joinAbstract concatenates labelled abstract sections in order, prefixing
// each section with its label when present ("BACKGROUND: ...").
func joinAbstract(sections []abstractText) string {
	var parts []string
	for _, s := range sections {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		if s.Label != "" {
			text = s.Label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// formatPubDate renders a PubMed publication date as a display string.
// PubMed dates come as Year/Month/Day fragments or a free-form MedlineDate
// ("2000 Spring"), so no attempt is made to parse them into time.Time.
func formatPubDate(d pubDateMeta) string {
	if d.MedlineDate != "" {
		return strings.TrimSpace(d.MedlineDate)
	}
	parts := []string{}
	for _, p := range []string{d.Year, d.Month, d.Day} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
