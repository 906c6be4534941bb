// Package importer loads catalog records from an Excel workbook.
package importer

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"travel-booking/internal/models"
	"travel-booking/internal/service"
)

// RowError describes a row that was not imported.
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

// SheetResult summarizes the import of one sheet.
type SheetResult struct {
	Sheet    string     `json:"sheet"`
	Missing  bool       `json:"missing,omitempty"`
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped,omitempty"`
}

type Importer struct {
	catalog *service.Catalog
	owner   string
	log     *zap.Logger
}

// New returns an importer inserting through catalog. Imported records are
// owned by owner, which may be empty.
func New(catalog *service.Catalog, owner string, log *zap.Logger) *Importer {
	return &Importer{catalog: catalog, owner: owner, log: log}
}

// dateColumns hold calendar dates, stored by Excel as day serials.
var dateColumns = map[string]bool{
	"date":        true,
	"valid_until": true,
}

// ignoredColumns are assigned by the database.
var ignoredColumns = map[string]bool{
	"id":         true,
	"user_id":    true,
	"created_at": true,
}

// Import reads the Destinations, Hotels, Events, Promos and Transports
// sheets. Rows failing validation are skipped and reported; any other
// insert failure stops the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) ([]SheetResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := []struct {
		name string
		load func(ctx context.Context, rows [][]string, res *SheetResult) error
	}{
		{"Destinations", func(ctx context.Context, rows [][]string, res *SheetResult) error {
			return importRows(ctx, im, rows, res, im.catalog.Destinations)
		}},
		{"Hotels", func(ctx context.Context, rows [][]string, res *SheetResult) error {
			return importRows(ctx, im, rows, res, im.catalog.Hotels)
		}},
		{"Events", func(ctx context.Context, rows [][]string, res *SheetResult) error {
			return importRows(ctx, im, rows, res, im.catalog.Events)
		}},
		{"Promos", func(ctx context.Context, rows [][]string, res *SheetResult) error {
			return importRows(ctx, im, rows, res, im.catalog.Promos)
		}},
		{"Transports", func(ctx context.Context, rows [][]string, res *SheetResult) error {
			return importRows(ctx, im, rows, res, im.catalog.Transports)
		}},
	}

	results := make([]SheetResult, 0, len(sheets))
	for _, sh := range sheets {
		res := SheetResult{Sheet: sh.name}
		name, ok := findSheet(f, sh.name)
		if !ok {
			res.Missing = true
			results = append(results, res)
			continue
		}

		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return results, errors.Wrapf(err, "read sheet %s", name)
		}
		err = sh.load(ctx, rows, &res)
		results = append(results, res)
		if err != nil {
			return results, errors.Wrapf(err, "import sheet %s", name)
		}
		im.log.Info("imported sheet",
			zap.String("sheet", name),
			zap.Int("imported", res.Imported),
			zap.Int("skipped", len(res.Skipped)),
		)
	}
	return results, nil
}

func findSheet(f *excelize.File, want string) (string, bool) {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, true
		}
	}
	return "", false
}

func importRows[T any, P service.Record[T]](ctx context.Context, im *Importer, rows [][]string, res *SheetResult, dst *service.Resource[T, P]) error {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}

	for i, row := range rows[1:] {
		line := i + 2
		values := rowValues(header, row)
		if len(values) == 0 {
			continue
		}

		rec := P(new(T))
		if err := decode(values, rec); err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: line, Err: err.Error()})
			continue
		}
		rec.SetOwner(im.owner)

		err := dst.Create(ctx, rec, nil)
		if errors.Is(err, service.ErrInvalid) {
			res.Skipped = append(res.Skipped, RowError{Row: line, Err: err.Error()})
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "row %d", line)
		}
		res.Imported++
	}
	return nil
}

// normalizeHeader maps "Image URL" to "image_url".
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}

func rowValues(header, row []string) map[string]interface{} {
	values := make(map[string]interface{})
	for i, h := range header {
		if h == "" || ignoredColumns[h] || i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if dateColumns[h] {
			v = excelDate(v)
		}
		values[h] = v
	}
	return values
}

// excelDate turns a day serial into a calendar date and leaves any other
// text untouched.
func excelDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format(models.DateLayout)
}

var priceType = reflect.TypeOf(models.Price(0))

func priceHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != priceType || from.Kind() != reflect.String {
		return data, nil
	}
	return models.ParsePrice(data.(string))
}

func decode(values map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       priceHook,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}
