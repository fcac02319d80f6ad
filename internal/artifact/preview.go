package artifact

import (
	"strings"

	"golang.org/x/net/html"
)

// PreviewWords bounds the length of an artifact preview.
const PreviewWords = 20

// Preview returns the first words of an artifact's visible text. HTML
// artifacts are parsed so markup, scripts and styles do not leak in.
func Preview(a Artifact) string {
	text := a.Content
	if a.Language == "html" {
		if _, body, err := htmlText(text); err == nil {
			text = body
		}
	}
	return truncateWords(cleanText(text), PreviewWords)
}

// DocumentTitle returns the <title> of an HTML artifact, if any.
func DocumentTitle(a Artifact) string {
	if a.Language != "html" {
		return ""
	}
	title, _, err := htmlText(a.Content)
	if err != nil {
		return ""
	}
	return cleanText(title)
}

func htmlText(content string) (title, text string, err error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", "", err
	}
	return findTitle(doc), bodyText(doc), nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return nodeText(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// bodyText collects text nodes outside of head, script and style.
func bodyText(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "head", "script", "style", "noscript", "template":
			return ""
		}
	}

	var sb strings.Builder
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(bodyText(c))
	}
	return sb.String()
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
