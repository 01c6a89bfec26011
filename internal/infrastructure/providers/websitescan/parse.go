package websitescan

import (
	"encoding/json"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// pageSignals accumulates everything one tree walk can extract.
type pageSignals struct {
	title       string
	metaByName  map[string]string
	canonical   string
	h1s         []string
	imgTotal    int
	imgNoAlt    int
	noAltSrcs   []string
	links       []string
	emptyLinks  int
	jsonLD      []string
	textLen     int
	words       int
}

// parsePage turns raw homepage markup into the scan result. A page that
// fails to parse as HTML still yields a result: html.Parse is lenient and
// the extractors treat absent signals as zero values.
func parsePage(body, finalURL string, sslValid, http2 bool) *domain.ScanResult {
	sig := &pageSignals{metaByName: make(map[string]string)}

	root, err := html.Parse(strings.NewReader(body))
	if err == nil {
		walk(root, sig, false)
	}

	res := &domain.ScanResult{
		SSLValid: sslValid,
		HTTP2:    http2,
	}
	res.Images = imageStats(sig)
	res.Meta = pageMeta(sig)
	res.Schema = schemaInfo(sig)
	res.OpenGraph = tagCoverage(sig, "og:title", "og:description", "og:image")
	res.TwitterCards = tagCoverage(sig, "twitter:card", "twitter:title", "twitter:image")
	res.Content = contentStats(sig, len(body), finalURL)
	res.Blog = blogInfo(sig)
	return res
}

func walk(n *html.Node, sig *pageSignals, inBody bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if sig.title == "" {
				sig.title = strings.TrimSpace(textOf(n))
			}
		case "meta":
			name := attr(n, "name")
			if name == "" {
				name = attr(n, "property")
			}
			if name != "" {
				sig.metaByName[strings.ToLower(name)] = attr(n, "content")
			}
		case "link":
			if strings.EqualFold(attr(n, "rel"), "canonical") {
				sig.canonical = attr(n, "href")
			}
		case "h1":
			sig.h1s = append(sig.h1s, strings.TrimSpace(textOf(n)))
		case "img":
			sig.imgTotal++
			if strings.TrimSpace(attr(n, "alt")) == "" {
				sig.imgNoAlt++
				if src := attr(n, "src"); src != "" && len(sig.noAltSrcs) < 10 {
					sig.noAltSrcs = append(sig.noAltSrcs, src)
				}
			}
		case "a":
			href := strings.TrimSpace(attr(n, "href"))
			if href == "" || href == "#" {
				sig.emptyLinks++
			} else {
				sig.links = append(sig.links, href)
			}
		case "script":
			if strings.EqualFold(attr(n, "type"), "application/ld+json") {
				sig.jsonLD = append(sig.jsonLD, textOf(n))
			}
			// Script bodies never count as page text.
			return
		case "style":
			return
		case "body":
			inBody = true
		}
	}
	if n.Type == html.TextNode && inBody {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			sig.textLen += len(text)
			for _, w := range strings.Fields(text) {
				if len(w) > 1 {
					sig.words++
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, sig, inBody)
	}
}

func imageStats(sig *pageSignals) domain.ImageStats {
	stats := domain.ImageStats{
		Total:              sig.imgTotal,
		MissingAlt:         sig.imgNoAlt,
		MissingAltExamples: sig.noAltSrcs,
	}
	if sig.imgTotal > 0 {
		pct := sig.imgNoAlt * 100 / sig.imgTotal
		stats.MissingAltPct = &pct
	}
	return stats
}

func pageMeta(sig *pageSignals) domain.PageMeta {
	desc := sig.metaByName["description"]
	h1Text := ""
	if len(sig.h1s) > 0 {
		h1Text = sig.h1s[0]
	}
	return domain.PageMeta{
		Title:             sig.title,
		TitleLength:       len(sig.title),
		Description:       desc,
		DescriptionLength: len(desc),
		HasH1:             len(sig.h1s) > 0,
		MultipleH1:        len(sig.h1s) > 1,
		H1Text:            h1Text,
		Noindex:           strings.Contains(strings.ToLower(sig.metaByName["robots"]), "noindex"),
		Canonical:         sig.canonical,
	}
}

// schemaInfo collects @type values from every JSON-LD block, tolerating
// both single objects and arrays, plus @graph containers.
func schemaInfo(sig *pageSignals) domain.SchemaInfo {
	var types []string
	seen := make(map[string]bool)
	addType := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	var collect func(v any)
	collect = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			switch t := val["@type"].(type) {
			case string:
				addType(t)
			case []any:
				for _, item := range t {
					if s, ok := item.(string); ok {
						addType(s)
					}
				}
			}
			if graph, ok := val["@graph"].([]any); ok {
				for _, item := range graph {
					collect(item)
				}
			}
		case []any:
			for _, item := range val {
				collect(item)
			}
		}
	}

	for _, block := range sig.jsonLD {
		var parsed any
		if err := json.Unmarshal([]byte(block), &parsed); err != nil {
			continue
		}
		collect(parsed)
	}

	return domain.SchemaInfo{
		Types:            types,
		HasOrganization:  seen["Organization"],
		HasLocalBusiness: seen["LocalBusiness"],
		HasFAQ:           seen["FAQPage"],
	}
}

func tagCoverage(sig *pageSignals, required ...string) domain.TagCoverage {
	var present int
	var missing []string
	for _, tag := range required {
		if sig.metaByName[tag] != "" {
			present++
		} else {
			missing = append(missing, tag)
		}
	}
	return domain.TagCoverage{
		Complete:    present == len(required),
		Partial:     present > 0 && present < len(required),
		ActualTitle: sig.metaByName[required[0]],
		MissingTags: missing,
	}
}

func contentStats(sig *pageSignals, htmlLen int, finalURL string) domain.ContentStats {
	stats := domain.ContentStats{
		TotalLinks: len(sig.links) + sig.emptyLinks,
		EmptyLinks: sig.emptyLinks,
	}
	if htmlLen > 0 {
		ratio := sig.textLen * 100 / htmlLen
		stats.Ratio = &ratio
	}
	words := sig.words
	stats.WordCount = &words

	host := ""
	if u, err := url.Parse(finalURL); err == nil {
		host = u.Hostname()
	}
	internal := 0
	for _, link := range sig.links {
		if isInternalLink(link, host) {
			internal++
		}
	}
	stats.InternalLinks = &internal
	return stats
}

func isInternalLink(link, host string) bool {
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	} else if strings.HasPrefix(link, "/") {
		return true
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		// Relative path or fragment within the page.
		return !strings.HasPrefix(link, "mailto:") && !strings.HasPrefix(link, "tel:")
	}
	linkHost := strings.TrimPrefix(u.Hostname(), "www.")
	host = strings.TrimPrefix(host, "www.")
	return linkHost == host || strings.HasSuffix(linkHost, "."+host)
}

var blogPathMarkers = []string{"/blog", "/news", "/articles", "/resources", "/insights"}

func blogInfo(sig *pageSignals) domain.BlogInfo {
	for _, link := range sig.links {
		lower := strings.ToLower(link)
		for _, marker := range blogPathMarkers {
			if strings.Contains(lower, marker) {
				return domain.BlogInfo{Detected: true, Path: marker}
			}
		}
	}
	return domain.BlogInfo{}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}
