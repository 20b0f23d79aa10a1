package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	htmldom "golang.org/x/net/html"
)

const (
	maxErrorDetail = 160
	maxBodyBytes   = 8 << 20
)

// SummarizeBody reduces an error response to one short line. Gateways in
// front of both catalogues answer with HTML pages, so those are parsed for
// their title and visible text.
func SummarizeBody(contentType string, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json") || body[0] == '{':
		var msg struct {
			Error       any    `json:"error"`
			Description string `json:"error_description"`
			Message     string `json:"message"`
			Detail      string `json:"detail"`
		}
		if json.Unmarshal(body, &msg) == nil {
			for _, s := range []string{msg.Description, msg.Message, msg.Detail, errorText(msg.Error)} {
				if strings.TrimSpace(s) != "" {
					return clip(s)
				}
			}
		}
	case strings.Contains(ct, "html") || bytes.HasPrefix(bytes.ToLower(body), []byte("<!doctype html")) || bytes.HasPrefix(bytes.ToLower(body), []byte("<html")):
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err == nil {
			title := strings.TrimSpace(doc.Find("title").First().Text())
			doc.Find("script, style, head").Remove()
			var words []string
			for _, n := range doc.Nodes {
				words = appendText(words, n)
			}
			text := strings.Join(words, " ")
			switch {
			case title != "" && text != "" && !strings.HasPrefix(text, title):
				return clip(title + ": " + text)
			case text != "":
				return clip(text)
			case title != "":
				return clip(title)
			}
		}
	}
	return clip(strings.Join(strings.Fields(string(body)), " "))
}

// CheckResponse turns a non-2xx response into a *StatusError.
func CheckResponse(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &StatusError{Op: op, Status: resp.StatusCode, Detail: SummarizeBody(resp.Header.Get("Content-Type"), body)}
}

func DecodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("malformed response payload: %w", err)
	}
	return nil
}

// goquery's Text() glues adjacent elements together; walk the nodes so
// block boundaries become spaces.
func appendText(words []string, n *htmldom.Node) []string {
	if n.Type == htmldom.TextNode {
		return append(words, strings.Fields(n.Data)...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		words = appendText(words, c)
	}
	return words
}

// errorText flattens the "error" member, which OAuth servers send as a
// string and some STAC gateways as an object.
func errorText(v any) string {
	switch e := v.(type) {
	case nil:
		return ""
	case string:
		return e
	case map[string]any:
		for _, k := range []string{"message", "description", "detail"} {
			if s, ok := e[k].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		if c, ok := e["code"]; ok {
			return fmt.Sprintf("error code %v", c)
		}
		return ""
	default:
		return fmt.Sprint(e)
	}
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorDetail {
		return s
	}
	n := maxErrorDetail
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
