package pipeline

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// HTMLToText extracts the visible text from a filing document. Unparsable
// input falls back to the raw string since EDGAR serves some plain-text
// filings under .txt URLs.
func HTMLToText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return content
	}
	return text
}

// PickPrimaryDoc scans a filing index page for the primary document link.
// Index self-links are skipped; the first same-directory .htm/.html/.txt
// link wins. Empty result means the index itself is the best we have.
func PickPrimaryDoc(indexHTML, indexURL string) string {
	doc, err := html.Parse(strings.NewReader(indexHTML))
	if err != nil {
		return ""
	}
	base, err := url.Parse(indexURL)
	if err != nil {
		return ""
	}
	baseDir := indexURL[:strings.LastIndex(indexURL, "/")+1]

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, href := range links {
		h := strings.ToLower(href)
		if strings.HasSuffix(h, "-index.htm") || strings.HasSuffix(h, "-index.html") {
			continue
		}
		if strings.HasSuffix(h, ".htm") || strings.HasSuffix(h, ".html") || strings.HasSuffix(h, ".txt") {
			if ref, err := url.Parse(href); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
	}

	// Second pass: any document resolved under the index's directory.
	for _, href := range links {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		full := base.ResolveReference(ref).String()
		fl := strings.ToLower(full)
		if !strings.HasPrefix(full, baseDir) {
			continue
		}
		if (strings.HasSuffix(fl, ".htm") || strings.HasSuffix(fl, ".html") || strings.HasSuffix(fl, ".txt")) &&
			!strings.Contains(fl, "-index") {
			return full
		}
	}
	return ""
}
