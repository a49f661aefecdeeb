package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/loader"
)

const defaultSelector = "table"

// HTMLLoader extracts a table from an HTML page, e.g. a Google Sheet published to the web.
type HTMLLoader struct {
	client *http.Client
}

var _ loader.Loader = (*HTMLLoader)(nil)

// NewHTMLLoader wires an HTTP client used for http(s) paths.
func NewHTMLLoader(client *http.Client) *HTMLLoader {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLLoader{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HTMLLoader) Name() string {
	return "html"
}

// Load reads the first table matching req.Selector.
func (h *HTMLLoader) Load(ctx context.Context, req loader.Request) (domain.RawTable, error) {
	doc, err := h.fetchDocument(ctx, req.Path)
	if err != nil {
		return domain.RawTable{}, err
	}

	selector := req.Selector
	if selector == "" {
		selector = defaultSelector
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return domain.RawTable{}, fmt.Errorf("no table matches %q in %s", selector, req.Path)
	}

	rows := extractRows(table)
	header, body, line := loader.SplitHeader(rows)
	if header == nil {
		return domain.RawTable{}, fmt.Errorf("table in %s has no header row", req.Path)
	}

	return loader.BuildTable(req.Source, header, body, line), nil
}

func (h *HTMLLoader) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return parseDocument(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "CreativeAnalytics/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", path, resp.Status)
	}

	return parseDocument(resp.Body)
}

func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// extractRows drops the row-number and column-letter cells Google Sheets adds.
func extractRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			if cell.HasClass("row-headers-background") || cell.HasClass("column-headers-background") {
				return
			}
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		rows = append(rows, cells)
	})
	return rows
}
