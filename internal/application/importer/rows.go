package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/sales"
)

// ProductRow fila de products.csv.
type ProductRow struct {
	ProductName string          `csv:"ProductName" validate:"required"`
	Cost        decimal.Decimal `csv:"Cost"`
	SalesPrice  decimal.Decimal `csv:"SalesPrice"`
}

// StoreRow fila de stores.csv.
type StoreRow struct {
	StoreName string `csv:"StoreName" validate:"required"`
}

// InventorySaleRow fila de inventory-sales.csv.
type InventorySaleRow struct {
	ProductID     int64     `csv:"ProductId" validate:"gte=0"`
	StoreID       int64     `csv:"StoreId" validate:"gte=0"`
	Date          time.Time `csv:"Date"`
	SalesQuantity int64     `csv:"SalesQuantity" validate:"gte=0"`
	Stock         int64     `csv:"Stock" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if tag := f.Tag.Get("csv"); tag != "" {
			return tag
		}
		return f.Name
	})
	return v
}

// table lee un CSV con cabecera; las columnas se buscan por nombre sin importar mayúsculas ni orden.
type table struct {
	source  string
	r       *csv.Reader
	columns map[string]int
	line    int
}

// newTable lee la cabecera y comprueba que estén las columnas requeridas.
// Un origen vacío (sin cabecera) produce una tabla sin filas.
func newTable(source string, r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	t := &table{source: source, r: cr, columns: map[string]int{}}

	header, err := t.read()
	if errors.Is(err, io.EOF) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}
	for i, name := range header {
		t.columns[normalizeColumn(name)] = i
	}
	for _, col := range required {
		if _, ok := t.columns[normalizeColumn(col)]; !ok {
			return nil, &domain.ParseError{Source: source, Line: t.line, Column: col, Err: errors.New("columna requerida ausente")}
		}
	}
	return t, nil
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// read devuelve el siguiente registro. io.EOF al terminar.
func (t *table) read() ([]string, error) {
	rec, err := t.r.Read()
	if err == nil {
		t.line, _ = t.r.FieldPos(0)
		return rec, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) && errors.Is(csvErr.Err, csv.ErrFieldCount) {
		return nil, &domain.ParseError{Source: t.source, Line: csvErr.Line, Err: csvErr.Err}
	}
	return nil, fmt.Errorf("%w: %s: %v", domain.ErrIO, t.source, err)
}

func (t *table) text(rec []string, col string) string {
	i, ok := t.columns[normalizeColumn(col)]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (t *table) integer(rec []string, col string) (int64, error) {
	v := t.text(rec, col)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, t.errorf(col, v, err)
	}
	return n, nil
}

func (t *table) money(rec []string, col string) (decimal.Decimal, error) {
	v := t.text(rec, col)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, t.errorf(col, v, err)
	}
	return d, nil
}

func (t *table) date(rec []string, col string) (time.Time, error) {
	v := t.text(rec, col)
	d, err := sales.ParseDate(v)
	if err != nil {
		return time.Time{}, t.errorf(col, v, err)
	}
	return d, nil
}

func (t *table) errorf(col, value string, err error) error {
	return &domain.ParseError{Source: t.source, Line: t.line, Column: col, Value: value, Err: err}
}

// check aplica las reglas de validación de la fila y traduce el primer fallo a ParseError.
func (t *table) check(row any) error {
	err := validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return t.errorf(fe.Field(), fmt.Sprint(fe.Value()), fmt.Errorf("no cumple %s", fe.Tag()))
	}
	return t.errorf("", "", err)
}

func readProducts(source string, r io.Reader) ([]ProductRow, error) {
	t, err := newTable(source, r, "ProductName", "Cost", "SalesPrice")
	if err != nil {
		return nil, err
	}
	var rows []ProductRow
	for {
		rec, err := t.read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := ProductRow{ProductName: t.text(rec, "ProductName")}
		if row.Cost, err = t.money(rec, "Cost"); err != nil {
			return nil, err
		}
		if row.SalesPrice, err = t.money(rec, "SalesPrice"); err != nil {
			return nil, err
		}
		if err := t.check(row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func readStores(source string, r io.Reader) ([]StoreRow, error) {
	t, err := newTable(source, r, "StoreName")
	if err != nil {
		return nil, err
	}
	var rows []StoreRow
	for {
		rec, err := t.read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := StoreRow{StoreName: t.text(rec, "StoreName")}
		if err := t.check(row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func readInventorySales(source string, r io.Reader) ([]InventorySaleRow, error) {
	t, err := newTable(source, r, "ProductId", "StoreId", "Date", "SalesQuantity", "Stock")
	if err != nil {
		return nil, err
	}
	var rows []InventorySaleRow
	for {
		rec, err := t.read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		var row InventorySaleRow
		if row.ProductID, err = t.integer(rec, "ProductId"); err != nil {
			return nil, err
		}
		if row.StoreID, err = t.integer(rec, "StoreId"); err != nil {
			return nil, err
		}
		if row.Date, err = t.date(rec, "Date"); err != nil {
			return nil, err
		}
		if row.SalesQuantity, err = t.integer(rec, "SalesQuantity"); err != nil {
			return nil, err
		}
		if row.Stock, err = t.integer(rec, "Stock"); err != nil {
			return nil, err
		}
		if err := t.check(row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
