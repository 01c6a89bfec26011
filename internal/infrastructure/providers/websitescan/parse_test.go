package websitescan

import (
	"testing"
)

const fixtureHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Acme Plumbing | Emergency Plumbers</title>
<meta name="description" content="24/7 emergency plumbing across the metro area. Licensed, insured, and on call when pipes burst at the worst possible time tonight.">
<meta name="robots" content="index, follow">
<meta property="og:title" content="Acme Plumbing">
<meta property="og:description" content="Emergency plumbing, day or night.">
<meta name="twitter:card" content="summary">
<meta name="twitter:title" content="Acme Plumbing">
<link rel="canonical" href="https://acme-plumbing.com/">
<script type="application/ld+json">
{"@context":"https://schema.org","@type":"LocalBusiness","name":"Acme Plumbing"}
</script>
<script type="application/ld+json">
{"@graph":[{"@type":["Organization","Brand"]},{"@type":"FAQPage"}]}
</script>
<style>body { margin: 0 }</style>
</head>
<body>
<h1>Emergency Plumbing Services</h1>
<nav>
<a href="/services">Services</a>
<a href="/about">About</a>
<a href="/blog">Blog</a>
<a href="#">Menu</a>
<a href="https://www.acme-plumbing.com/contact">Contact</a>
<a href="https://shop.acme-plumbing.com">Shop</a>
<a href="https://facebook.com/acmeplumbing">Facebook</a>
<a href="mailto:help@acme-plumbing.com">Email us</a>
</nav>
<img src="/img/van.jpg" alt="Acme service van">
<img src="/img/crew.jpg">
<img src="/img/pipes.jpg" alt="">
<p>We fix burst pipes, blocked drains, and failed water heaters around the clock.</p>
<script>console.log("tracking beacon fires here with many words that must not count")</script>
</body>
</html>`

func TestParsePageMetaAndHeadings(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", true, true)

	if res.Meta.Title != "Acme Plumbing | Emergency Plumbers" {
		t.Fatalf("title = %q", res.Meta.Title)
	}
	if res.Meta.DescriptionLength < 120 || res.Meta.DescriptionLength > 160 {
		t.Fatalf("description length = %d, want in-range fixture", res.Meta.DescriptionLength)
	}
	if !res.Meta.HasH1 || res.Meta.MultipleH1 {
		t.Fatalf("h1 flags = %v/%v", res.Meta.HasH1, res.Meta.MultipleH1)
	}
	if res.Meta.H1Text != "Emergency Plumbing Services" {
		t.Fatalf("h1 text = %q", res.Meta.H1Text)
	}
	if res.Meta.Noindex {
		t.Fatal("noindex detected on an indexable page")
	}
	if res.Meta.Canonical != "https://acme-plumbing.com/" {
		t.Fatalf("canonical = %q", res.Meta.Canonical)
	}
}

func TestParsePageImages(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", true, true)

	if res.Images.Total != 3 || res.Images.MissingAlt != 2 {
		t.Fatalf("images = %d total / %d missing alt", res.Images.Total, res.Images.MissingAlt)
	}
	if res.Images.MissingAltPct == nil || *res.Images.MissingAltPct != 66 {
		t.Fatalf("missing alt pct = %v", res.Images.MissingAltPct)
	}
	if len(res.Images.MissingAltExamples) != 2 {
		t.Fatalf("examples = %v", res.Images.MissingAltExamples)
	}
}

func TestParsePageStructuredData(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", true, true)

	if !res.Schema.HasLocalBusiness || !res.Schema.HasOrganization || !res.Schema.HasFAQ {
		t.Fatalf("schema flags = %+v", res.Schema)
	}
	if len(res.Schema.Types) != 4 {
		t.Fatalf("types = %v", res.Schema.Types)
	}
}

func TestParsePageSocialCoverage(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", true, true)

	if res.OpenGraph.Complete || !res.OpenGraph.Partial {
		t.Fatalf("open graph coverage = %+v", res.OpenGraph)
	}
	if res.OpenGraph.ActualTitle != "Acme Plumbing" {
		t.Fatalf("og title = %q", res.OpenGraph.ActualTitle)
	}
	if len(res.OpenGraph.MissingTags) != 1 || res.OpenGraph.MissingTags[0] != "og:image" {
		t.Fatalf("og missing = %v", res.OpenGraph.MissingTags)
	}
	// Card and title are present; a missing image still counts as partial.
	if res.TwitterCards.Complete || !res.TwitterCards.Partial {
		t.Fatalf("twitter coverage = %+v", res.TwitterCards)
	}
}

func TestParsePageLinksAndBlog(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", true, true)

	if res.Content.TotalLinks != 8 {
		t.Fatalf("total links = %d", res.Content.TotalLinks)
	}
	if res.Content.EmptyLinks != 1 {
		t.Fatalf("empty links = %d", res.Content.EmptyLinks)
	}
	// Path-relative, www, and subdomain links are internal; Facebook and
	// mailto are not.
	if res.Content.InternalLinks == nil || *res.Content.InternalLinks != 5 {
		t.Fatalf("internal links = %v", res.Content.InternalLinks)
	}
	if !res.Blog.Detected || res.Blog.Path != "/blog" {
		t.Fatalf("blog = %+v", res.Blog)
	}
}

func TestParsePageContentSignals(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", true, true)

	if res.Content.WordCount == nil || *res.Content.WordCount == 0 {
		t.Fatal("word count missing")
	}
	if res.Content.Ratio == nil || *res.Content.Ratio <= 0 {
		t.Fatalf("content ratio = %v", res.Content.Ratio)
	}
	// Inline script text never inflates the word count. The visible copy
	// in the fixture is well under 40 words.
	if *res.Content.WordCount > 40 {
		t.Fatalf("word count = %d, script text leaked in", *res.Content.WordCount)
	}
}

func TestParsePageTransportFlags(t *testing.T) {
	res := parsePage(fixtureHTML, "https://acme-plumbing.com/", false, false)
	if res.SSLValid || res.HTTP2 {
		t.Fatalf("transport flags = %v/%v", res.SSLValid, res.HTTP2)
	}
}

func TestParsePageEmptyBody(t *testing.T) {
	res := parsePage("", "https://acme-plumbing.com/", true, false)
	if res == nil {
		t.Fatal("nil result for empty body")
	}
	if res.Images.Total != 0 || res.Meta.HasH1 || res.Blog.Detected {
		t.Fatalf("empty body produced signals: %+v", res)
	}
}
