package cli

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jhoicas/invent-cli/internal/application/dto"
	"github.com/jhoicas/invent-cli/internal/domain/sales"
)

func writeSaleRows(w io.Writer, rows []dto.SaleRow) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"ProductName", "StoreName", "Date", "SalesQuantity", "Stock"})
	for _, r := range rows {
		_ = cw.Write([]string{
			r.ProductName,
			r.StoreName,
			sales.FormatDate(r.Date),
			strconv.FormatInt(r.SalesQuantity, 10),
			strconv.FormatInt(r.Stock, 10),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeProfits(w io.Writer, profits []sales.StoreProfit) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"StoreName", "Profit"})
	for _, p := range profits {
		_ = cw.Write([]string{p.StoreName, p.Profit.StringFixed(2)})
	}
	cw.Flush()
	return cw.Error()
}

// writeMostProfitable solo el nombre de la tienda ganadora; sin ventas queda la cabecera.
func writeMostProfitable(w io.Writer, best *sales.StoreProfit) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"StoreName"})
	if best != nil {
		_ = cw.Write([]string{best.StoreName})
	}
	cw.Flush()
	return cw.Error()
}
