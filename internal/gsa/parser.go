package gsa

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ParseContext supplies the URLs the parser needs to synthesize links.
type ParseContext struct {
	// BaseURL prefixes cache links.
	BaseURL string
	// RootURL prefixes "more results" links. Defaults to BaseURL.
	RootURL string
}

func (c ParseContext) root() string {
	if c.RootURL != "" {
		return c.RootURL
	}
	return c.BaseURL
}

// node is an element of the parsed document. Text children are kept as
// nodes with an empty name so mixed content keeps its order.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

func (n *node) attr(name string) string {
	return n.attrs[name]
}

func (n *node) hasAttr(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// Text returns the concatenated text of all descendants.
func (n *node) Text() string {
	if n.name == "" {
		return n.text
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *node) writeText(b *strings.Builder) {
	for _, c := range n.children {
		if c.name == "" {
			b.WriteString(c.text)
			continue
		}
		c.writeText(b)
	}
}

func (n *node) elements(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) first(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// joinLines drops trailing line terminators from every line and
// concatenates the result.
func joinLines(body []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(body))
	r := bufio.NewReader(bytes.NewReader(body))
	for {
		line, err := r.ReadBytes('\n')
		out.Write(bytes.TrimRight(line, "\r\n"))
		if err != nil {
			break
		}
	}
	return out.Bytes()
}

func parseDocument(body []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	doc := &node{name: "#document"}
	stack := []*node{doc}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &node{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			top.children = append(top.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			top.children = append(top.children, &node{text: string(t)})
		}
	}
	return doc, nil
}

// ParseSearchXML converts an xml search response body into a SearchResult.
// A response without a TM node is a decode error.
func ParseSearchXML(body []byte, pc ParseContext) (*SearchResult, error) {
	doc, err := parseDocument(joinLines(body))
	if err != nil {
		return nil, &DecodeError{Format: string(OutputXML), Err: err}
	}

	gsp := doc.first("GSP")
	if gsp == nil {
		return nil, &DecodeError{Format: string(OutputXML), Err: errors.New("missing GSP root element")}
	}

	result := &SearchResult{
		AllParams:     echoedParams(gsp),
		TotalResults:  "0",
		ActualResults: ResultSet{},
	}

	tm := gsp.first("TM")
	if tm == nil {
		return nil, &DecodeError{Format: string(OutputXML), Err: errors.New("missing TM element")}
	}
	result.SearchTime = tm.Text()

	res := gsp.first("RES")
	if res == nil {
		return result, nil
	}
	result.From = res.attr("SN")
	result.To = res.attr("EN")

	w := &resultWalker{ctx: pc, result: result}
	for _, child := range res.children {
		w.visit(child)
	}
	return result, nil
}

func echoedParams(gsp *node) EchoedParams {
	var p EchoedParams
	for _, param := range gsp.elements("PARAM") {
		value := param.attr("value")
		switch param.attr("name") {
		case "q":
			p.Query = value
		case "site":
			p.Site = value
		case "client":
			p.Client = value
		case "output":
			p.Output = value
		case "start":
			p.Start = value
		}
	}
	return p
}

// resultWalker dispatches RES children by tag name.
type resultWalker struct {
	ctx    ParseContext
	result *SearchResult
	index  int
}

func (w *resultWalker) visit(n *node) {
	switch n.name {
	case "M":
		w.result.TotalResults = n.Text()
	case "NB":
		w.result.TopNav = topNav(n)
	case "R":
		w.result.ActualResults = append(w.result.ActualResults, w.record(n))
	case "FI":
		w.result.Filtered = true
	}
}

func topNav(nb *node) *TopNav {
	nav := &TopNav{}
	for _, c := range nb.children {
		switch c.name {
		case "PU":
			nav.Previous = c.Text()
		case "NU":
			nav.Next = c.Text()
		}
	}
	return nav
}

func (w *resultWalker) record(r *node) *Result {
	rec := &Result{
		Key:      fmt.Sprintf("result_%d", w.index),
		Indented: leadingInt(r.attr("L")) > 1,
	}
	w.index++

	params := w.result.AllParams
	for _, c := range r.children {
		switch c.name {
		case "U":
			rec.DisplayLink = c.Text()
		case "UE":
			rec.LinkForTitle = c.Text()
		case "T":
			rec.Title = c.Text()
		case "FS":
			if c.hasAttr("VALUE") {
				date := c.attr("VALUE")
				rec.Date = &date
			}
		case "S":
			rec.Description = c.Text()
		case "HAS":
			for _, cache := range c.elements("C") {
				rec.CacheLink = cacheLinkURL(w.ctx.BaseURL, cache.attr("CID"), rec.LinkForTitle, params)
				rec.Size = cache.attr("SZ")
			}
		case "HN":
			host := c.Text()
			rec.MoreResults = &MoreResults{
				Text: "More Results from " + host,
				Link: siteSearchURL(w.ctx.root(), host, params),
			}
		}
	}
	return rec
}

// leadingInt parses the leading decimal digits of s, returning 0 when
// there are none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		return -n
	}
	return n
}
