package importer

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"

	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/internal/domain/entity"
	"github.com/jhoicas/invent-cli/internal/domain/repository"
)

// Paths rutas de los tres archivos CSV de la carga inicial.
type Paths struct {
	Products string
	Stores   string
	Sales    string
}

// Summary cantidad de filas insertadas por colección.
type Summary struct {
	Products int
	Stores   int
	Sales    int
}

// Total suma de filas insertadas.
func (s Summary) Total() int {
	return s.Products + s.Stores + s.Sales
}

// Importer carga productos, tiendas y ventas desde CSV en una sola transacción.
// Siempre crea filas nuevas: está pensado para la siembra inicial, repetirlo duplica productos y tiendas.
type Importer struct {
	txRunner ImportTxRunner
	enc      encoding.Encoding
}

// NewImporter construye el caso de uso. encodingName acepta utf-8 (por defecto), iso-8859-1 o windows-1252.
func NewImporter(txRunner ImportTxRunner, encodingName string) (*Importer, error) {
	enc, err := decoderFor(encodingName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return &Importer{txRunner: txRunner, enc: enc}, nil
}

// ImportFiles abre los tres archivos y delega en ImportAll. Un archivo ilegible devuelve domain.ErrIO.
func (im *Importer) ImportFiles(ctx context.Context, paths Paths) (Summary, error) {
	products, err := os.Open(paths.Products)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	defer products.Close()
	stores, err := os.Open(paths.Stores)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	defer stores.Close()
	inventorySales, err := os.Open(paths.Sales)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	defer inventorySales.Close()

	return im.importAll(ctx, named{paths.Products, products}, named{paths.Stores, stores}, named{paths.Sales, inventorySales})
}

// ImportAll interpreta los tres orígenes (falla en la primera fila mal formada) y luego inserta
// todo dentro de una transacción. Las referencias a producto/tienda de las ventas no se validan.
func (im *Importer) ImportAll(ctx context.Context, products, stores, inventorySales io.Reader) (Summary, error) {
	return im.importAll(ctx,
		named{"products", products},
		named{"stores", stores},
		named{"inventory-sales", inventorySales},
	)
}

type named struct {
	name string
	r    io.Reader
}

func (im *Importer) importAll(ctx context.Context, products, stores, inventorySales named) (Summary, error) {
	productRows, err := readProducts(products.name, decode(products.r, im.enc))
	if err != nil {
		return Summary{}, err
	}
	storeRows, err := readStores(stores.name, decode(stores.r, im.enc))
	if err != nil {
		return Summary{}, err
	}
	saleRows, err := readInventorySales(inventorySales.name, decode(inventorySales.r, im.enc))
	if err != nil {
		return Summary{}, err
	}

	newProducts := make([]*entity.Product, 0, len(productRows))
	for _, row := range productRows {
		newProducts = append(newProducts, &entity.Product{
			Name:       row.ProductName,
			Cost:       row.Cost,
			SalesPrice: row.SalesPrice,
		})
	}
	newStores := make([]*entity.Store, 0, len(storeRows))
	for _, row := range storeRows {
		newStores = append(newStores, &entity.Store{Name: row.StoreName})
	}
	newSales := make([]*entity.InventorySale, 0, len(saleRows))
	for _, row := range saleRows {
		newSales = append(newSales, &entity.InventorySale{
			ProductID:     row.ProductID,
			StoreID:       row.StoreID,
			Date:          row.Date,
			SalesQuantity: row.SalesQuantity,
			Stock:         row.Stock,
		})
	}

	err = im.txRunner.RunImport(ctx, func(
		productRepo repository.ProductRepository,
		storeRepo repository.StoreRepository,
		saleRepo repository.InventorySaleRepository,
	) error {
		if err := productRepo.CreateMany(ctx, newProducts); err != nil {
			return err
		}
		if err := storeRepo.CreateMany(ctx, newStores); err != nil {
			return err
		}
		return saleRepo.CreateMany(ctx, newSales)
	})
	if err != nil {
		return Summary{}, err
	}
	return Summary{Products: len(newProducts), Stores: len(newStores), Sales: len(newSales)}, nil
}
