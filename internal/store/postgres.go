package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"trade-marketplace-service/internal/domain"
	"trade-marketplace-service/internal/query"
)

// Predefined errors for store operations
var (
	ErrProductNotFound    = errors.New("store: product not found")
	ErrProductSlugExists  = errors.New("store: product slug already exists")
	ErrSuggestionNotFound = errors.New("store: trade suggestion not found")
	ErrCategoryNotFound   = errors.New("store: category not found")
	ErrUserNotFound       = errors.New("store: user not found")
)

// PostgresStore implements ProductStorer, TradeSuggestionStorer and
// CategoryStorer using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Shared column lists keep the count query, the page query and the
// single-row lookups scanning the same shape.
const productColumns = `
	p.id, p.title, p.slug, p.description, p.short_desc, p.price, p.currency,
	p.min_order, p.unit, p.images, p.specifications, p.hs_code, p.origin,
	p.brand, p.model, p.condition, p.availability, p.status, p.views,
	p.country, p.state, p.city, p.keywords, p.created_at, p.updated_at,
	p.user_id, p.category_id,
	u.name, u.company, u.country, u.city, u.is_verified,
	c.name, c.slug`

const productFrom = `
	FROM marketplace.products p
	JOIN marketplace.users u ON u.id = p.user_id
	JOIN marketplace.categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p              domain.Product
		shortDesc      sql.NullString
		price          sql.NullFloat64
		minOrder       sql.NullString
		unit           sql.NullString
		images         sql.NullString
		specifications sql.NullString
		hsCode         sql.NullString
		origin         sql.NullString
		brand          sql.NullString
		model          sql.NullString
		state          sql.NullString
		city           sql.NullString
		keywords       sql.NullString

		ownerName     sql.NullString
		ownerCompany  sql.NullString
		ownerCountry  sql.NullString
		ownerCity     sql.NullString
		ownerVerified bool

		categoryName string
		categorySlug string
	)

	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &shortDesc, &price, &p.Currency,
		&minOrder, &unit, &images, &specifications, &hsCode, &origin,
		&brand, &model, &p.Condition, &p.Availability, &p.Status, &p.Views,
		&p.Country, &state, &city, &keywords, &p.CreatedAt, &p.UpdatedAt,
		&p.UserID, &p.CategoryID,
		&ownerName, &ownerCompany, &ownerCountry, &ownerCity, &ownerVerified,
		&categoryName, &categorySlug,
	)
	if err != nil {
		return nil, err
	}

	p.ShortDesc = nullableString(shortDesc)
	if price.Valid {
		p.Price = &price.Float64
	}
	p.MinOrder = nullableString(minOrder)
	p.Unit = nullableString(unit)
	p.HSCode = nullableString(hsCode)
	p.Origin = nullableString(origin)
	p.Brand = nullableString(brand)
	p.Model = nullableString(model)
	p.State = nullableString(state)
	p.City = nullableString(city)
	p.Images = decodeStringList(images)
	p.Keywords = decodeStringList(keywords)
	p.Specifications = decodeRawJSON(specifications)

	p.User = &domain.UserSummary{
		ID:         p.UserID,
		Name:       nullableString(ownerName),
		Company:    nullableString(ownerCompany),
		Country:    nullableString(ownerCountry),
		City:       nullableString(ownerCity),
		IsVerified: ownerVerified,
	}
	p.Category = &domain.CategorySummary{
		ID:   p.CategoryID,
		Name: categoryName,
		Slug: categorySlug,
	}

	return &p, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// decodeStringList unpacks a JSON-encoded text column into a slice,
// defaulting to an empty slice on NULL or malformed content so API
// responses carry [] rather than null.
func decodeStringList(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" || ns.String == "null" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return []string{}
	}
	return out
}

func decodeRawJSON(ns sql.NullString) *json.RawMessage {
	if !ns.Valid || ns.String == "" || ns.String == "null" {
		return nil
	}
	raw := json.RawMessage(ns.String)
	return &raw
}

func encodeStringList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func encodeRawJSON(raw *json.RawMessage) []byte {
	if raw == nil || len(*raw) == 0 {
		return []byte("null")
	}
	return *raw
}

// --- ProductStorer Implementation ---

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	imagesJSON, err := encodeStringList(product.Images)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to encode images: %w", err)
	}
	keywordsJSON, err := encodeStringList(product.Keywords)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to encode keywords: %w", err)
	}

	id := uuid.NewString()
	insertQuery := `
		INSERT INTO marketplace.products
			(id, title, slug, description, short_desc, price, currency, min_order, unit,
			 images, specifications, hs_code, origin, brand, model, condition,
			 availability, status, views, country, state, city, keywords, user_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err = s.db.ExecContext(ctx, insertQuery,
		id, product.Title, product.Slug, product.Description, product.ShortDesc,
		product.Price, product.Currency, product.MinOrder, product.Unit,
		imagesJSON, encodeRawJSON(product.Specifications), product.HSCode,
		product.Origin, product.Brand, product.Model, string(product.Condition),
		string(product.Availability), string(domain.StatusActive), 0,
		product.Country, product.State, product.City, keywordsJSON,
		product.UserID, product.CategoryID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique violation
				if strings.Contains(pqErr.Constraint, "products_slug_key") || strings.Contains(pqErr.Detail, "Key (slug)") {
					return nil, ErrProductSlugExists
				}
			case "23503": // foreign key violation
				if strings.Contains(pqErr.Constraint, "category") {
					return nil, ErrCategoryNotFound
				}
				if strings.Contains(pqErr.Constraint, "user") {
					return nil, ErrUserNotFound
				}
			}
		}
		return nil, fmt.Errorf("store: CreateProduct failed to insert row: %w", err)
	}

	created, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to reload created product: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	getQuery := "SELECT " + productColumns + productFrom + " WHERE p.id = $1;"
	product, err := scanProduct(s.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return product, nil
}

// ListProducts runs the count query and the page query generated from the
// filter's predicate. The two reads are independent; under concurrent writes
// the count and the slice may diverge, which the API accepts.
func (s *PostgresStore) ListProducts(ctx context.Context, filter *query.ProductFilter) ([]domain.Product, int, error) {
	where, args := query.ProductPredicate(filter)

	countQuery := "SELECT COUNT(*)" + productFrom + " " + where
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to count products: %w", err)
	}

	if totalCount == 0 {
		return []domain.Product{}, 0, nil
	}

	dataQuery := fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
		productColumns, productFrom, where, filter.SortBy.OrderBy(), len(args)+1, len(args)+2)
	dataArgs := append(args, filter.Limit, filter.Offset())

	rows, err := s.db.QueryContext(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}

	return products, totalCount, nil
}

func (s *PostgresStore) IncrementProductViews(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE marketplace.products SET views = views + 1 WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: IncrementProductViews failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: IncrementProductViews failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// --- TradeSuggestionStorer Implementation ---

const tradeColumns = `
	t.id, t.title, t.description, t.type, t.category, t.country, t.budget,
	t.quantity, t.timeline, t.specifications, t.contact_info, t.status,
	t.priority, t.views, t.expires_at, t.created_at, t.updated_at, t.user_id,
	u.name, u.company, u.country, u.is_verified`

const tradeFrom = `
	FROM marketplace.trade_suggestions t
	JOIN marketplace.users u ON u.id = t.user_id`

func scanTradeSuggestion(row rowScanner) (*domain.TradeSuggestion, error) {
	var (
		t              domain.TradeSuggestion
		budget         sql.NullString
		quantity       sql.NullString
		timeline       sql.NullString
		specifications sql.NullString
		contactInfo    sql.NullString
		expiresAt      sql.NullTime

		ownerName     sql.NullString
		ownerCompany  sql.NullString
		ownerCountry  sql.NullString
		ownerVerified bool
	)

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Type, &t.Category, &t.Country, &budget,
		&quantity, &timeline, &specifications, &contactInfo, &t.Status,
		&t.Priority, &t.Views, &expiresAt, &t.CreatedAt, &t.UpdatedAt, &t.UserID,
		&ownerName, &ownerCompany, &ownerCountry, &ownerVerified,
	)
	if err != nil {
		return nil, err
	}

	t.Budget = nullableString(budget)
	t.Quantity = nullableString(quantity)
	t.Timeline = nullableString(timeline)
	t.Specifications = decodeRawJSON(specifications)
	t.ContactInfo = decodeRawJSON(contactInfo)
	if expiresAt.Valid {
		t.ExpiresAt = &expiresAt.Time
	}

	t.User = &domain.UserSummary{
		ID:         t.UserID,
		Name:       nullableString(ownerName),
		Company:    nullableString(ownerCompany),
		Country:    nullableString(ownerCountry),
		IsVerified: ownerVerified,
	}

	return &t, nil
}

func (s *PostgresStore) CreateTradeSuggestion(ctx context.Context, suggestion *domain.TradeSuggestion) (*domain.TradeSuggestion, error) {
	id := uuid.NewString()
	insertQuery := `
		INSERT INTO marketplace.trade_suggestions
			(id, title, description, type, category, country, budget, quantity,
			 timeline, specifications, contact_info, status, priority, views,
			 expires_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := s.db.ExecContext(ctx, insertQuery,
		id, suggestion.Title, suggestion.Description, string(suggestion.Type),
		suggestion.Category, suggestion.Country, suggestion.Budget, suggestion.Quantity,
		suggestion.Timeline, encodeRawJSON(suggestion.Specifications),
		encodeRawJSON(suggestion.ContactInfo), string(domain.SuggestionActive), 0, 0,
		suggestion.ExpiresAt, suggestion.UserID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if strings.Contains(pqErr.Constraint, "user") {
				return nil, ErrUserNotFound
			}
		}
		return nil, fmt.Errorf("store: CreateTradeSuggestion failed to insert row: %w", err)
	}

	created, err := s.getTradeSuggestionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store: CreateTradeSuggestion failed to reload created suggestion: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) getTradeSuggestionByID(ctx context.Context, id string) (*domain.TradeSuggestion, error) {
	getQuery := "SELECT " + tradeColumns + tradeFrom + " WHERE t.id = $1;"
	suggestion, err := scanTradeSuggestion(s.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSuggestionNotFound
		}
		return nil, err
	}
	return suggestion, nil
}

// ListTradeSuggestions mirrors ListProducts: count first, then the ordered
// page, both generated from the same predicate.
func (s *PostgresStore) ListTradeSuggestions(ctx context.Context, filter *query.TradeFilter) ([]domain.TradeSuggestion, int, error) {
	where, args := query.TradePredicate(filter)

	countQuery := "SELECT COUNT(*)" + tradeFrom + " " + where
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListTradeSuggestions failed to count suggestions: %w", err)
	}

	if totalCount == 0 {
		return []domain.TradeSuggestion{}, 0, nil
	}

	dataQuery := fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
		tradeColumns, tradeFrom, where, query.TradeOrderBy, len(args)+1, len(args)+2)
	dataArgs := append(args, filter.Limit, filter.Offset())

	rows, err := s.db.QueryContext(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListTradeSuggestions failed to query suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := make([]domain.TradeSuggestion, 0, filter.Limit)
	for rows.Next() {
		t, err := scanTradeSuggestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: ListTradeSuggestions failed to scan row: %w", err)
		}
		suggestions = append(suggestions, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListTradeSuggestions iteration error: %w", err)
	}

	return suggestions, totalCount, nil
}

// --- CategoryStorer Implementation ---

func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	listQuery := `
		SELECT c.id, c.name, c.slug, c.description, c.image, c.is_active, c.parent_id,
			(SELECT COUNT(*) FROM marketplace.products p WHERE p.category_id = c.id AND p.status = 'ACTIVE') AS product_count,
			c.created_at, c.updated_at
		FROM marketplace.categories c
		WHERE c.is_active = TRUE
		ORDER BY c.name ASC;
	`
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var (
			c           domain.Category
			description sql.NullString
			image       sql.NullString
			parentID    sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &description, &image, &c.IsActive,
			&parentID, &c.ProductCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		c.Description = nullableString(description)
		c.Image = nullableString(image)
		c.ParentID = nullableString(parentID)
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}

	return categories, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		log.Println("INFO: Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database connection pool: %v", err)
			return err
		}
		log.Println("INFO: Database connection pool closed successfully.")
	}
	return nil
}
