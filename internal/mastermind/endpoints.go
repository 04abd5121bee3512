// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mastermind

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Suggestion is one candidate from the suggestions (normalization)
// endpoint.
type Suggestion struct {
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	Matched   string `json:"matched"`
	URL       string `json:"url"`
}

// Suggest runs a normalization lookup. kind is the parameter name the
// service expects: "gene", "variant", "disease", or "hpo". An empty slice
// means the input could not be resolved; the caller decides whether to
// skip or abort.
func (c *Client) Suggest(ctx context.Context, kind, text string) ([]Suggestion, error) {
	params := url.Values{kind: {text}}
	var out []Suggestion
	if err := c.get(ctx, "suggestions", params, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// ResolveVariant normalizes a raw gene:change input to its canonical
// variant name. When the direct lookup fails it resolves the gene symbol
// first and retries with the canonical gene, matching how curators type
// variants with aliased gene symbols.
func (c *Client) ResolveVariant(ctx context.Context, input string) (string, error) {
	suggestions, err := c.Suggest(ctx, "variant", input)
	if err != nil {
		return "", err
	}
	if len(suggestions) > 0 {
		return suggestions[0].Canonical, nil
	}

	gene, change := splitVariant(input)
	if change == "" {
		return "", &UnresolvableError{Kind: "variant", Input: input}
	}
	geneSuggestions, err := c.Suggest(ctx, "gene", gene)
	if err != nil {
		return "", err
	}
	if len(geneSuggestions) == 0 {
		return "", &UnresolvableError{Kind: "gene", Input: gene}
	}
	suggestions, err = c.Suggest(ctx, "variant", geneSuggestions[0].Canonical+":"+change)
	if err != nil {
		return "", err
	}
	if len(suggestions) == 0 {
		return "", &UnresolvableError{Kind: "variant", Input: input}
	}
	return suggestions[0].Canonical, nil
}

func splitVariant(input string) (gene, change string) {
	for i := 0; i < len(input); i++ {
		if input[i] == ':' {
			return input[:i], input[i+1:]
		}
	}
	return input, ""
}

// CountsResult is the response of a counts query.
type CountsResult struct {
	ArticleCount int    `json:"article_count"`
	URL          string `json:"url"`
}

// Counts returns the evidence citation count for a query. HTTP 404 yields
// a zero count, not an error: it indicates "no evidence".
func (c *Client) Counts(ctx context.Context, q Query) (CountsResult, error) {
	var out CountsResult
	if err := c.get(ctx, "counts", q.Values(), &out); err != nil {
		if IsNotFound(err) {
			return CountsResult{}, nil
		}
		return CountsResult{}, err
	}
	return out, nil
}

// ArticlesPage is one page of a paginated articles query. ArticleCount and
// Pages describe the full match set as reported by the service.
type ArticlesPage struct {
	ArticleCount int               `json:"article_count"`
	Pages        int               `json:"pages"`
	Articles     []types.ArticleRef `json:"articles"`
}

// Articles fetches one page of matching article records, ranked by
// relevance. page 0 omits the parameter (first page).
func (c *Client) Articles(ctx context.Context, q Query, page int) (ArticlesPage, error) {
	params := q.Values()
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var out ArticlesPage
	if err := c.get(ctx, "articles", params, &out); err != nil {
		return ArticlesPage{}, err
	}
	return out, nil
}

// DiseaseCount is one disease associated with an entity, with its
// supporting article count.
type DiseaseCount struct {
	Key          string `json:"key"`
	ArticleCount int    `json:"article_count"`
}

// Diseases lists the diseases associated with a query's entity, most cited
// first.
func (c *Client) Diseases(ctx context.Context, q Query) ([]DiseaseCount, error) {
	var out struct {
		Diseases []DiseaseCount `json:"diseases"`
	}
	if err := c.get(ctx, "diseases", q.Values(), &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return out.Diseases, nil
}

// VariantRecord is one variant of a gene from the variants listing.
type VariantRecord struct {
	Gene         string `json:"gene"`
	Key          string `json:"key"`
	ArticleCount int    `json:"article_count"`
	URL          string `json:"url"`
}

// VariantsPage is one page of a paginated variants listing.
type VariantsPage struct {
	VariantCount int             `json:"variant_count"`
	Pages        int             `json:"pages"`
	Variants     []VariantRecord `json:"variants"`
}

// Variants fetches one page of a gene's variant listing. page 0 omits the
// parameter.
func (c *Client) Variants(ctx context.Context, q Query, page int) (VariantsPage, error) {
	params := q.Values()
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	var out VariantsPage
	if err := c.get(ctx, "variants", params, &out); err != nil {
		if IsNotFound(err) {
			return VariantsPage{}, nil
		}
		return VariantsPage{}, err
	}
	return out, nil
}

// Wire format of the article_info endpoint.
type articleInfoResponse struct {
	PMID            string `json:"pmid"`
	Journal         string `json:"journal"`
	Title           string `json:"title"`
	PublicationDate string `json:"publication_date"`
	Genes           []struct {
		Symbol   string `json:"symbol"`
		Variants []struct {
			Key string `json:"key"`
		} `json:"variants"`
	} `json:"genes"`
	Diseases []struct {
		Key string `json:"key"`
	} `json:"diseases"`
	HPOTerms []struct {
		Term string `json:"term"`
		Key  string `json:"key"`
	} `json:"hpo_terms"`
}

// ArticleInfo fetches the full detail record for one PMID.
func (c *Client) ArticleInfo(ctx context.Context, pmid string) (*types.Article, error) {
	params := url.Values{"pmid": {pmid}}
	var raw articleInfoResponse
	if err := c.get(ctx, "article_info", params, &raw); err != nil {
		return nil, err
	}

	article := &types.Article{
		PMID:    pmid,
		Journal: raw.Journal,
		Title:   raw.Title,
	}
	if raw.PMID != "" {
		article.PMID = raw.PMID
	}
	if raw.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", raw.PublicationDate); err == nil {
			article.Date = t
		}
	}
	for _, g := range raw.Genes {
		mention := types.GeneMention{Symbol: g.Symbol}
		for _, v := range g.Variants {
			mention.Variants = append(mention.Variants, v.Key)
		}
		article.Genes = append(article.Genes, mention)
	}
	for _, d := range raw.Diseases {
		article.Diseases = append(article.Diseases, d.Key)
	}
	for _, h := range raw.HPOTerms {
		article.Phenotypes = append(article.Phenotypes, types.Phenotype{Term: h.Term, Key: h.Key})
	}
	return article, nil
}
