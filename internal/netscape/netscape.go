// Package netscape parses the Netscape bookmarks HTML format that every
// major browser produces on export. The result is the same flat node
// sequence a host tree read yields, so exports merge through the regular
// reconciliation path.
package netscape

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/sidemark/sidemark/internal/host"
)

// Parse reads a bookmarks HTML document and returns its folders and
// bookmarks flattened depth-first, parent before children, in the same
// shape a host tree read yields. Node IDs are synthetic and only
// meaningful within the returned slice.
//
// Browsers emit technically malformed HTML here (unclosed DT tags); the
// tokenizer-based walk tolerates that.
func Parse(r io.Reader) ([]host.Node, error) {
	tz := html.NewTokenizer(r)

	var nodes []host.Node
	var stack []string // parent IDs, innermost last
	var indexes []int  // next child index per open folder
	var pendingFolder *host.Node
	nextID := 0
	stack = append(stack, "")
	indexes = append(indexes, 0)

	newID := func() string {
		nextID++
		return fmt.Sprintf("n%d", nextID)
	}

	for {
		switch tz.Next() {
		case html.ErrorToken:
			if tz.Err() == io.EOF {
				return nodes, nil
			}
			return nil, fmt.Errorf("parse bookmarks html: %w", tz.Err())

		case html.StartTagToken:
			tok := tz.Token()
			switch tok.Data {
			case "h3":
				n := host.Node{
					HostID:       newID(),
					HostParentID: stack[len(stack)-1],
					Index:        indexes[len(indexes)-1],
					DateAdded:    attrTime(tok, "add_date"),
				}
				indexes[len(indexes)-1]++
				n.Title = textUntilClose(tz, "h3")
				nodes = append(nodes, n)
				pendingFolder = &nodes[len(nodes)-1]

			case "dl":
				if pendingFolder != nil {
					stack = append(stack, pendingFolder.HostID)
					pendingFolder = nil
				} else {
					// The outermost DL (or a stray one) keeps the current
					// parent: its entries are forest roots.
					stack = append(stack, stack[len(stack)-1])
				}
				indexes = append(indexes, 0)

			case "a":
				n := host.Node{
					HostID:       newID(),
					HostParentID: stack[len(stack)-1],
					URL:          attr(tok, "href"),
					Index:        indexes[len(indexes)-1],
					DateAdded:    attrTime(tok, "add_date"),
				}
				indexes[len(indexes)-1]++
				n.Title = textUntilClose(tz, "a")
				if n.URL != "" {
					nodes = append(nodes, n)
				}
			}

		case html.EndTagToken:
			tok := tz.Token()
			if tok.Data == "dl" && len(stack) > 1 {
				stack = stack[:len(stack)-1]
				indexes = indexes[:len(indexes)-1]
			}
		}
	}
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// attrTime parses the Unix-seconds ADD_DATE attribute.
func attrTime(tok html.Token, name string) time.Time {
	v := attr(tok, name)
	if v == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// textUntilClose collects text content until the named end tag.
func textUntilClose(tz *html.Tokenizer, tag string) string {
	var sb strings.Builder
	for {
		switch tz.Next() {
		case html.TextToken:
			sb.Write(tz.Text())
		case html.EndTagToken:
			tok := tz.Token()
			if tok.Data == tag {
				return strings.TrimSpace(sb.String())
			}
		case html.ErrorToken, html.StartTagToken:
			return strings.TrimSpace(sb.String())
		}
	}
}
