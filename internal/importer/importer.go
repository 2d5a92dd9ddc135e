package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter loads catalog rows into the products table, keyed by name.
type CSVImporter struct {
	reader *csv.Reader
	writer ProductWriter
}

func NewCSVImporter(r io.Reader, w ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // spreadsheet exports pad or trim trailing columns
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, writer: w}
}

var requiredHeaders = []string{"name", "price"}

// Run reads every row and upserts it, stopping at the first bad row. The
// returned count covers rows written before the failure.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			return 0, fmt.Errorf("missing required column %q", h)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			return imported, nil
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if _, err := i.writer.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
		IsAvailable: true,
	}
	if p.Name == "" {
		return p, errors.New("name is required")
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return p, fmt.Errorf("price for %q: %w", p.Name, err)
	}
	p.Price = price

	if raw := pick(record, index, "delivery_charge"); raw != "" {
		charge, err := decimal.NewFromString(raw)
		if err != nil {
			return p, fmt.Errorf("delivery_charge for %q: %w", p.Name, err)
		}
		p.DeliveryCharge = charge
	}

	if raw := pick(record, index, "is_available"); raw != "" {
		ok, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("is_available for %q: %w", p.Name, err)
		}
		p.IsAvailable = ok
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
