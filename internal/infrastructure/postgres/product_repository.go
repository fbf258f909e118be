package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, title, description, price, points_price, variants, images, average_rating, rating_count, purchase_types, sale, dress_styles, categories, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). Variants y Sale viven en columnas JSONB; las
// etiquetas (categorías, estilos, tipos de compra) en text[].
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. El título es único.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Title, product.Description, product.Price, product.PointsPrice,
		product.Variants, product.Images, product.AverageRating, product.RatingCount,
		product.PurchaseTypes, product.Sale, product.DressStyles, product.Categories,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con ese título", domain.ErrConflict)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene un producto bloqueando su fila; base del decremento
// de stock por variante dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.PointsPrice,
		&p.Variants, &p.Images, &p.AverageRating, &p.RatingCount,
		&p.PurchaseTypes, &p.Sale, &p.DressStyles, &p.Categories,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update persiste el estado completo del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET title = $2, description = $3, price = $4, points_price = $5,
			variants = $6, images = $7, purchase_types = $8, sale = $9,
			dress_styles = $10, categories = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Title, product.Description, product.Price, product.PointsPrice,
		product.Variants, product.Images, product.PurchaseTypes, product.Sale,
		product.DressStyles, product.Categories, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un producto con ese título", domain.ErrConflict)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateRating actualiza solo el agregado de reseñas del producto.
func (r *ProductRepo) UpdateRating(productID string, average float64, count int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET average_rating = $2, rating_count = $3, updated_at = now() WHERE id = $1`,
		productID, average, count,
	)
	if err != nil {
		return fmt.Errorf("update product rating: %w", err)
	}
	return nil
}

// List pagina el catálogo aplicando los filtros. Devuelve la página y el
// total sin paginar para calcular las páginas totales.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	where, args := buildProductWhere(filter)

	var total int64
	countQuery := `SELECT count(*) FROM products` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + buildProductOrder(filter)
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListRelated devuelve productos que comparten alguna categoría o estilo,
// excluyendo al propio producto.
func (r *ProductRepo) ListRelated(product *entity.Product, limit int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id <> $1 AND (categories && $2 OR dress_styles && $3)
		ORDER BY created_at DESC
		LIMIT $4`
	rows, err := r.q.Query(context.Background(), query,
		product.ID, product.Categories, product.DressStyles, limit)
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// StartDueSales enciende las ofertas programadas cuya ventana ya abrió y
// aún no vencieron. Devuelve los productos activados para anunciarlos.
func (r *ProductRepo) StartDueSales(now time.Time) ([]*entity.Product, error) {
	query := `
		UPDATE products
		SET sale = jsonb_set(sale, '{isOnSale}', 'true'::jsonb), updated_at = $1
		WHERE COALESCE((sale->>'isOnSale')::boolean, false) = false
		  AND sale->>'startsAt' IS NOT NULL
		  AND (sale->>'startsAt')::timestamptz <= $1
		  AND (sale->>'endsAt' IS NULL OR (sale->>'endsAt')::timestamptz > $1)
		RETURNING ` + productColumns
	rows, err := r.q.Query(context.Background(), query, now)
	if err != nil {
		return nil, fmt.Errorf("start due sales: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// EndExpiredSales apaga las ofertas activas cuya ventana ya cerró y
// devuelve los productos afectados para anunciar el cierre.
func (r *ProductRepo) EndExpiredSales(now time.Time) ([]*entity.Product, error) {
	query := `
		UPDATE products
		SET sale = '{"isOnSale": false}'::jsonb, updated_at = $1
		WHERE COALESCE((sale->>'isOnSale')::boolean, false) = true
		  AND sale->>'endsAt' IS NOT NULL
		  AND (sale->>'endsAt')::timestamptz <= $1
		RETURNING ` + productColumns
	rows, err := r.q.Query(context.Background(), query, now)
	if err != nil {
		return nil, fmt.Errorf("end expired sales: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// buildProductWhere arma la cláusula WHERE parametrizada del listado.
func buildProductWhere(filter repository.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Search != "" {
		add(`(title ILIKE $%d OR description ILIKE $%[1]d)`, "%"+filter.Search+"%")
	}
	if filter.MinPrice != nil {
		add(`price >= $%d`, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add(`price <= $%d`, *filter.MaxPrice)
	}
	if len(filter.Categories) > 0 {
		add(`categories && $%d`, filter.Categories)
	}
	if len(filter.DressStyles) > 0 {
		add(`dress_styles && $%d`, filter.DressStyles)
	}
	if len(filter.Sizes) > 0 {
		add(`EXISTS (SELECT 1 FROM jsonb_array_elements(variants) v WHERE v->>'size' = ANY($%d))`, filter.Sizes)
	}
	if len(filter.Colors) > 0 {
		add(`EXISTS (SELECT 1 FROM jsonb_array_elements(variants) v WHERE v->>'color' = ANY($%d))`, filter.Colors)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildProductOrder arma el ORDER BY. Los campos ya vienen saneados desde
// el caso de uso (lista blanca), nunca directo del cliente.
func buildProductOrder(filter repository.ProductFilter) string {
	if len(filter.SortBy) == 0 {
		return " ORDER BY created_at DESC"
	}
	parts := make([]string, 0, len(filter.SortBy))
	for i, col := range filter.SortBy {
		dir := "ASC"
		if i < len(filter.SortDesc) && filter.SortDesc[i] {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.PointsPrice,
			&p.Variants, &p.Images, &p.AverageRating, &p.RatingCount,
			&p.PurchaseTypes, &p.Sale, &p.DressStyles, &p.Categories,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
