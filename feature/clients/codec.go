package clients

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"
)

// ReportHeader is the header row of a written report.
var ReportHeader = []string{
	models.FieldClientID,
	"discrepancy_type",
	"field",
	"source_value",
	"target_value",
}

// Codec reads client datasets and writes reports as delimited text.
type Codec struct {
	delimiter rune
	adapter   *Adapter
}

// NewCodec creates a codec for the given delimiter. An empty delimiter
// means a comma.
func NewCodec(delimiter string) (*Codec, error) {
	comma := ','
	if delimiter != "" {
		r, size := utf8.DecodeRuneInString(delimiter)
		if size != len(delimiter) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
			return nil, fmt.Errorf("invalid delimiter %q", delimiter)
		}
		comma = r
	}
	return &Codec{delimiter: comma, adapter: NewAdapter()}, nil
}

// Decode reads a client dataset. Cells that fail coercion are kept raw and
// listed in the dataset issues; a client_id that is not an integer aborts
// decoding.
func (c *Codec) Decode(r io.Reader, side reconcile.Side, location string) (reconcile.Dataset[models.Client], error) {
	reader := csv.NewReader(r)
	reader.Comma = c.delimiter
	reader.ReuseRecord = true

	ds := reconcile.Dataset[models.Client]{Location: location}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ds, &reconcile.SchemaMismatchError{Side: side, Missing: c.adapter.Columns()}
	}
	if err != nil {
		return ds, fmt.Errorf("failed to read %s header: %w", side, err)
	}
	ds.Columns = normalizeHeader(header)

	b := newRowBuilder(side, ds.Columns)
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ds, fmt.Errorf("failed to read %s dataset: %w", side, err)
		}
		line, _ := reader.FieldPos(0)

		client, issues, err := b.build(line, cells)
		if err != nil {
			return ds, err
		}
		ds.Records = append(ds.Records, client)
		ds.Issues = append(ds.Issues, issues...)
	}

	return ds, nil
}

// EncodeReport writes the report entries with ReportHeader. Null values are
// written as empty cells.
func (c *Codec) EncodeReport(w io.Writer, report *reconcile.Report) error {
	writer := c.newWriter(w)
	if err := writer.Write(ReportHeader); err != nil {
		return err
	}
	for _, e := range report.Entries {
		row := []string{
			strconv.FormatInt(e.Key, 10),
			string(e.Type),
			e.Field,
			e.Source.String(),
			e.Target.String(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// EncodeDataset writes records with the full client schema as header.
func (c *Codec) EncodeDataset(w io.Writer, records []models.Client) error {
	writer := c.newWriter(w)
	if err := writer.Write(c.adapter.Columns()); err != nil {
		return err
	}
	fields := c.adapter.Fields()
	row := make([]string, len(fields)+1)
	for _, rec := range records {
		row[0] = strconv.FormatInt(rec.ClientID, 10)
		for i, f := range fields {
			row[i+1] = f.Value(rec).String()
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (c *Codec) newWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.Comma = c.delimiter
	return writer
}

// normalizeHeader trims whitespace and a UTF-8 byte order mark from column
// names.
func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[i] = strings.TrimSpace(h)
	}
	return cols
}

// rowBuilder turns cells laid out by a header into clients.
type rowBuilder struct {
	side    reconcile.Side
	columns []string
	keyAt   int
}

func newRowBuilder(side reconcile.Side, columns []string) *rowBuilder {
	keyAt := -1
	for i, col := range columns {
		if col == models.FieldClientID {
			keyAt = i
			break
		}
	}
	return &rowBuilder{side: side, columns: columns, keyAt: keyAt}
}

// build parses one row. line is the 1-based input position, zero if unknown.
func (b *rowBuilder) build(line int, cells []string) (models.Client, []*reconcile.CoercionError, error) {
	if b.keyAt < 0 || b.keyAt >= len(cells) {
		return models.Client{}, nil, &reconcile.SchemaMismatchError{Side: b.side, Missing: []string{models.FieldClientID}}
	}

	rawKey := cells[b.keyAt]
	id, err := strconv.ParseInt(strings.TrimSpace(rawKey), 10, 64)
	if err != nil {
		return models.Client{}, nil, &reconcile.CoercionError{
			Side:  b.side,
			Line:  line,
			Key:   rawKey,
			Field: models.FieldClientID,
			Raw:   rawKey,
			Err:   errors.New("client_id must be an integer"),
		}
	}

	client := emptyClient(id)
	var issues []*reconcile.CoercionError
	for i, col := range b.columns {
		if i == b.keyAt || i >= len(cells) {
			continue
		}
		if err := setField(&client, col, cells[i]); err != nil {
			issues = append(issues, &reconcile.CoercionError{
				Side:  b.side,
				Line:  line,
				Key:   strconv.FormatInt(id, 10),
				Field: col,
				Raw:   cells[i],
				Err:   err,
			})
		}
	}
	return client, issues, nil
}
