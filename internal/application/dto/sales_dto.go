package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/sales"
)

// AddSalesRequest entrada de add-sales: "productId,storeId,date,quantity".
type AddSalesRequest struct {
	ProductID int64
	StoreID   int64
	Date      time.Time
	Quantity  int64
}

// Key clave natural de la fila a conciliar.
func (r AddSalesRequest) Key() entity.NaturalKey {
	return entity.NaturalKey{ProductID: r.ProductID, StoreID: r.StoreID, Date: r.Date}
}

// DeleteSalesRequest entrada de delete-sales: "productId,storeId,date".
type DeleteSalesRequest struct {
	ProductID int64
	StoreID   int64
	Date      time.Time
}

// Key clave natural de la fila a eliminar.
func (r DeleteSalesRequest) Key() entity.NaturalKey {
	return entity.NaturalKey{ProductID: r.ProductID, StoreID: r.StoreID, Date: r.Date}
}

// SaleRow fila de salida de list-sales. Los nombres quedan vacíos si la referencia no existe.
type SaleRow struct {
	ProductName   string
	StoreName     string
	Date          time.Time
	SalesQuantity int64
	Stock         int64
}

// ParseIDList convierte "1,2,3" en IDs. Las entradas vacías se ignoran.
func ParseIDList(source, s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, &domain.ParseError{Source: source, Column: "id", Value: part, Err: err}
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, &domain.ParseError{Source: source, Value: s, Err: fmt.Errorf("lista de IDs vacía")}
	}
	return ids, nil
}

// ParseAddSalesRequest interpreta "productId,storeId,date,quantity".
func ParseAddSalesRequest(s string) (AddSalesRequest, error) {
	const source = "add-sales"
	fields, err := splitFields(source, s, 4)
	if err != nil {
		return AddSalesRequest{}, err
	}
	productID, storeID, date, err := parseKeyFields(source, fields)
	if err != nil {
		return AddSalesRequest{}, err
	}
	qty, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return AddSalesRequest{}, &domain.ParseError{Source: source, Column: "quantity", Value: fields[3], Err: err}
	}
	if qty < 0 {
		return AddSalesRequest{}, &domain.ParseError{Source: source, Column: "quantity", Value: fields[3], Err: fmt.Errorf("la cantidad no puede ser negativa")}
	}
	return AddSalesRequest{ProductID: productID, StoreID: storeID, Date: date, Quantity: qty}, nil
}

// ParseDeleteSalesRequest interpreta "productId,storeId,date".
func ParseDeleteSalesRequest(s string) (DeleteSalesRequest, error) {
	const source = "delete-sales"
	fields, err := splitFields(source, s, 3)
	if err != nil {
		return DeleteSalesRequest{}, err
	}
	productID, storeID, date, err := parseKeyFields(source, fields)
	if err != nil {
		return DeleteSalesRequest{}, err
	}
	return DeleteSalesRequest{ProductID: productID, StoreID: storeID, Date: date}, nil
}

func splitFields(source, s string, want int) ([]string, error) {
	fields := strings.Split(s, ",")
	if len(fields) != want {
		return nil, &domain.ParseError{
			Source: source,
			Value:  s,
			Err:    fmt.Errorf("se esperaban %d campos, llegaron %d", want, len(fields)),
		}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

func parseKeyFields(source string, fields []string) (productID, storeID int64, date time.Time, err error) {
	productID, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, 0, time.Time{}, &domain.ParseError{Source: source, Column: "productId", Value: fields[0], Err: err}
	}
	storeID, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, time.Time{}, &domain.ParseError{Source: source, Column: "storeId", Value: fields[1], Err: err}
	}
	date, err = sales.ParseDate(fields[2])
	if err != nil {
		return 0, 0, time.Time{}, &domain.ParseError{Source: source, Column: "date", Value: fields[2], Err: err}
	}
	return productID, storeID, date, nil
}
