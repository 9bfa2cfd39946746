// Package affiliate rewrites raw product URLs into commission-tracked
// URLs for the configured affiliate programs.
package affiliate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Config holds the affiliate program credentials per marketplace
type Config struct {
	// AmazonTags maps an Amazon marketplace key (amazon_es, amazon_de, ...)
	// to its partner tag
	AmazonTags map[string]string

	// PcComponentesTag is the publicidadId value for the PcComponentes program
	PcComponentesTag string

	// AwinPublisherID enables the Awin redirect wrapper for registered merchants
	AwinPublisherID string
}

// awinMerchants maps provider keys to their Awin merchant ids
var awinMerchants = map[string]string{
	"elcorteingles": "15019",
	"decathlon":     "12189",
	"mediamarkt":    "14469",
	"zalando":       "9528",
}

// Rewriter produces affiliate links. Pure and deterministic given its config.
type Rewriter struct {
	cfg Config
}

// NewRewriter creates a link rewriter for the given program config
func NewRewriter(cfg Config) *Rewriter {
	return &Rewriter{cfg: cfg}
}

// Rewrite converts a product URL into its tracked form for the given
// provider key. Unknown providers, or programs with no credential
// configured, return the URL unchanged.
func (r *Rewriter) Rewrite(rawURL, provider string) string {
	if rawURL == "" {
		return rawURL
	}

	if strings.HasPrefix(provider, "amazon") {
		tag := r.amazonTag(provider)
		if tag == "" {
			return rawURL
		}
		return setQueryParam(rawURL, "tag", tag, "ref", "ref_")
	}

	if provider == "pccomponentes" {
		if r.cfg.PcComponentesTag == "" {
			return rawURL
		}
		return setQueryParam(rawURL, "publicidadId", r.cfg.PcComponentesTag)
	}

	if mid, ok := awinMerchants[provider]; ok && r.cfg.AwinPublisherID != "" {
		return fmt.Sprintf(
			"https://www.awin1.com/cread.php?awinmid=%s&awinaffid=%s&ued=%s",
			mid, r.cfg.AwinPublisherID, url.QueryEscape(rawURL),
		)
	}

	return rawURL
}

// amazonTag resolves the tag for a marketplace key, falling back to the
// Spanish marketplace tag for bare "amazon" links
func (r *Rewriter) amazonTag(provider string) string {
	if tag, ok := r.cfg.AmazonTags[provider]; ok && tag != "" {
		return tag
	}
	return r.cfg.AmazonTags["amazon_es"]
}

// setQueryParam sets (overwrites, never appends) a query parameter and
// drops the given tracking parameters. Malformed URLs fall back to naive
// string concatenation.
func setQueryParam(rawURL, key, value string, strip ...string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		return rawURL + sep + key + "=" + value
	}

	q := u.Query()
	q.Set(key, value)
	for _, s := range strip {
		q.Del(s)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// DetectProviderFromURL maps an outbound deal URL to a provider key
func DetectProviderFromURL(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "amazon.es"):
		return "amazon_es"
	case strings.Contains(lower, "amazon.de"):
		return "amazon_de"
	case strings.Contains(lower, "amazon.fr"):
		return "amazon_fr"
	case strings.Contains(lower, "amazon.it"):
		return "amazon_it"
	case strings.Contains(lower, "amazon.co.uk"):
		return "amazon_uk"
	case strings.Contains(lower, "amazon."):
		return "amazon"
	case strings.Contains(lower, "pccomponentes"):
		return "pccomponentes"
	case strings.Contains(lower, "elcorteingles"):
		return "elcorteingles"
	case strings.Contains(lower, "mediamarkt"):
		return "mediamarkt"
	case strings.Contains(lower, "decathlon"):
		return "decathlon"
	case strings.Contains(lower, "aliexpress"):
		return "aliexpress"
	case strings.Contains(lower, "zalando"):
		return "zalando"
	default:
		return "other"
	}
}

// DetectProviderFromText maps a merchant display name to a provider key
func DetectProviderFromText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "amazon"):
		return "amazon_es"
	case strings.Contains(lower, "pccomponentes"), strings.Contains(lower, "pc componentes"):
		return "pccomponentes"
	case strings.Contains(lower, "corte inglés"), strings.Contains(lower, "corte ingles"):
		return "elcorteingles"
	case strings.Contains(lower, "mediamarkt"), strings.Contains(lower, "media markt"):
		return "mediamarkt"
	case strings.Contains(lower, "decathlon"):
		return "decathlon"
	case strings.Contains(lower, "aliexpress"):
		return "aliexpress"
	default:
		return "other"
	}
}

var asinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`),
	regexp.MustCompile(`(?i)asin=([A-Z0-9]{10})`),
}

// ExtractASIN pulls the Amazon product id out of a URL, or "" if absent
func ExtractASIN(amazonURL string) string {
	for _, re := range asinPatterns {
		if m := re.FindStringSubmatch(amazonURL); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}
