package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"trade-marketplace-service/internal/cache"
	"trade-marketplace-service/internal/domain"
	"trade-marketplace-service/internal/query"
	"trade-marketplace-service/internal/store"
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	productStore  store.ProductStorer
	tradeStore    store.TradeSuggestionStorer
	categoryStore store.CategoryStorer
	categoryCache *cache.CategoryCache // nil when Redis is not configured
	validate      *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
// categoryCache may be nil; the category listing then always hits the store.
func NewHTTPHandler(ps store.ProductStorer, ts store.TradeSuggestionStorer, cs store.CategoryStorer, cc *cache.CategoryCache) *HTTPHandler {
	return &HTTPHandler{
		productStore:  ps,
		tradeStore:    ts,
		categoryStore: cs,
		categoryCache: cc,
		validate:      validator.New(),
	}
}

// --- Helpers ---

// SuccessResponse is the envelope for every successful JSON response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the envelope for validation and server failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: Failed to encode JSON response: %v", err)
			http.Error(w, `{"success": false, "error": "Internal server error during JSON encoding"}`, http.StatusInternalServerError)
		}
	}
}

func respondWithData(w http.ResponseWriter, code int, data interface{}) {
	respondWithJSON(w, code, SuccessResponse{Success: true, Data: data})
}

func respondWithError(w http.ResponseWriter, code int, message, details string) {
	respondWithJSON(w, code, ErrorResponse{Success: false, Error: message, Details: details})
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a listing title into a URL slug. A millisecond timestamp is
// appended so repeated titles do not collide on the slug unique constraint.
func slugify(title string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// --- Product Handlers ---

// productListData is the payload of the product listing response.
type productListData struct {
	Products   []domain.Product `json:"products"`
	Pagination query.Pagination `json:"pagination"`
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseProductFilter(r.URL.Query())
	if err != nil {
		var ve *query.ValidationError
		if errors.As(err, &ve) {
			respondWithError(w, http.StatusBadRequest, "Invalid query parameter", ve.Error())
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid query parameters", "")
		return
	}

	products, totalCount, err := h.productStore.ListProducts(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR: ListProducts store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch products", "")
		return
	}

	respondWithData(w, http.StatusOK, productListData{
		Products:   products,
		Pagination: query.NewPagination(filter.Page, filter.Limit, totalCount),
	})
}

// ProductCreateInput defines the expected input for creating a product listing.
// The acting user id arrives in the body until an identity provider is wired
// in front of the write paths.
type ProductCreateInput struct {
	Title          string           `json:"title" validate:"required,max=255"`
	Description    string           `json:"description" validate:"required"`
	ShortDesc      *string          `json:"shortDesc" validate:"omitempty,max=500"`
	Price          *float64         `json:"price" validate:"omitempty,gt=0"`
	Currency       string           `json:"currency"`
	MinOrder       *string          `json:"minOrder" validate:"omitempty"`
	Unit           *string          `json:"unit" validate:"omitempty"`
	Images         []string         `json:"images" validate:"omitempty,dive,max=2048"`
	Specifications *json.RawMessage `json:"specifications,omitempty" validate:"omitempty"`
	HSCode         *string          `json:"hsCode" validate:"omitempty"`
	Origin         *string          `json:"origin" validate:"omitempty"`
	Brand          *string          `json:"brand" validate:"omitempty"`
	Model          *string          `json:"model" validate:"omitempty"`
	Condition      string           `json:"condition" validate:"omitempty,oneof=NEW USED REFURBISHED"`
	Availability   string           `json:"availability" validate:"omitempty,oneof=AVAILABLE OUT_OF_STOCK LIMITED ON_DEMAND"`
	Country        string           `json:"country" validate:"required"`
	State          *string          `json:"state" validate:"omitempty"`
	City           *string          `json:"city" validate:"omitempty"`
	Keywords       []string         `json:"keywords" validate:"omitempty,dive,max=100"`
	CategoryID     string           `json:"categoryId" validate:"required"`
	UserID         string           `json:"userId" validate:"required"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	if input.Currency == "" {
		input.Currency = "USD"
	}
	if input.Condition == "" {
		input.Condition = string(domain.ConditionNew)
	}
	if input.Availability == "" {
		input.Availability = string(domain.AvailabilityAvailable)
	}

	product := &domain.Product{
		Title:          input.Title,
		Slug:           slugify(input.Title),
		Description:    input.Description,
		ShortDesc:      input.ShortDesc,
		Price:          input.Price,
		Currency:       input.Currency,
		MinOrder:       input.MinOrder,
		Unit:           input.Unit,
		Images:         input.Images,
		Specifications: input.Specifications,
		HSCode:         input.HSCode,
		Origin:         input.Origin,
		Brand:          input.Brand,
		Model:          input.Model,
		Condition:      domain.ProductCondition(input.Condition),
		Availability:   domain.ProductAvailability(input.Availability),
		Country:        input.Country,
		State:          input.State,
		City:           input.City,
		Keywords:       input.Keywords,
		UserID:         input.UserID,
		CategoryID:     input.CategoryID,
	}

	createdProduct, err := h.productStore.CreateProduct(r.Context(), product)
	if err != nil {
		log.Printf("ERROR: CreateProduct store operation failed: %v", err)
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			respondWithError(w, http.StatusBadRequest, "Invalid categoryId: category does not exist", "")
		case errors.Is(err, store.ErrUserNotFound):
			respondWithError(w, http.StatusBadRequest, "Invalid userId: user does not exist", "")
		case errors.Is(err, store.ErrProductSlugExists):
			respondWithError(w, http.StatusConflict, "A listing with this title already exists", "")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create product", "")
		}
		return
	}

	respondWithData(w, http.StatusCreated, createdProduct)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID", "")
		return
	}

	// Every detail read bumps the view counter feeding the popular sort.
	// A failed bump is logged but never hides the listing itself.
	if err := h.productStore.IncrementProductViews(r.Context(), productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		log.Printf("WARN: IncrementProductViews for ID %s failed: %v", productID, err)
	}

	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		log.Printf("ERROR: GetProductByID store operation for ID %s failed: %v", productID, err)
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found", "")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch product", "")
		}
		return
	}

	respondWithData(w, http.StatusOK, product)
}

// --- Trade Suggestion Handlers ---

// tradeListData is the payload of the trade-suggestion listing response.
type tradeListData struct {
	TradeSuggestions []domain.TradeSuggestion `json:"tradeSuggestions"`
	Pagination       query.Pagination         `json:"pagination"`
}

func (h *HTTPHandler) ListTradeSuggestions(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseTradeFilter(r.URL.Query())
	if err != nil {
		var ve *query.ValidationError
		if errors.As(err, &ve) {
			respondWithError(w, http.StatusBadRequest, "Invalid query parameter", ve.Error())
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid query parameters", "")
		return
	}

	suggestions, totalCount, err := h.tradeStore.ListTradeSuggestions(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR: ListTradeSuggestions store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch trade suggestions", "")
		return
	}

	respondWithData(w, http.StatusOK, tradeListData{
		TradeSuggestions: suggestions,
		Pagination:       query.NewPagination(filter.Page, filter.Limit, totalCount),
	})
}

// tradeSuggestionTTL is how long a new suggestion stays open by default.
const tradeSuggestionTTL = 90 * 24 * time.Hour

// TradeSuggestionCreateInput defines the expected input for posting a trade
// suggestion.
type TradeSuggestionCreateInput struct {
	Title          string           `json:"title" validate:"required,max=200"`
	Description    string           `json:"description" validate:"required"`
	Type           string           `json:"type" validate:"required,oneof=BUYING SELLING PARTNERSHIP INVESTMENT"`
	Category       string           `json:"category" validate:"required"`
	Country        string           `json:"country" validate:"required"`
	Budget         *string          `json:"budget" validate:"omitempty"`
	Quantity       *string          `json:"quantity" validate:"omitempty"`
	Timeline       *string          `json:"timeline" validate:"required"`
	Specifications *json.RawMessage `json:"specifications,omitempty" validate:"omitempty"`
	ContactInfo    *json.RawMessage `json:"contactInfo" validate:"required"`
	UserID         string           `json:"userId" validate:"required"`
}

func (h *HTTPHandler) CreateTradeSuggestion(w http.ResponseWriter, r *http.Request) {
	var input TradeSuggestionCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	expiresAt := time.Now().Add(tradeSuggestionTTL)
	suggestion := &domain.TradeSuggestion{
		Title:          input.Title,
		Description:    input.Description,
		Type:           domain.TradeType(input.Type),
		Category:       input.Category,
		Country:        input.Country,
		Budget:         input.Budget,
		Quantity:       input.Quantity,
		Timeline:       input.Timeline,
		Specifications: input.Specifications,
		ContactInfo:    input.ContactInfo,
		ExpiresAt:      &expiresAt,
		UserID:         input.UserID,
	}

	createdSuggestion, err := h.tradeStore.CreateTradeSuggestion(r.Context(), suggestion)
	if err != nil {
		log.Printf("ERROR: CreateTradeSuggestion store operation failed: %v", err)
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusBadRequest, "Invalid userId: user does not exist", "")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create trade suggestion", "")
		}
		return
	}

	respondWithData(w, http.StatusCreated, createdSuggestion)
}

// --- Category Handlers ---

// categoryListData is the payload of the category listing response.
type categoryListData struct {
	Categories []domain.Category `json:"categories"`
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if h.categoryCache != nil {
		cached, err := h.categoryCache.GetCategories(r.Context())
		if err != nil {
			log.Printf("WARN: Category cache read failed: %v", err)
		}
		if cached != nil {
			respondWithData(w, http.StatusOK, categoryListData{Categories: cached})
			return
		}
	}

	categories, err := h.categoryStore.ListCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: ListCategories store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch categories", "")
		return
	}

	if h.categoryCache != nil {
		if err := h.categoryCache.SetCategories(r.Context(), categories); err != nil {
			log.Printf("WARN: Category cache write failed: %v", err)
		}
	}

	respondWithData(w, http.StatusOK, categoryListData{Categories: categories})
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)              // GET /products
		r.Post("/", h.CreateProduct)            // POST /products
		r.Get("/{productId}", h.GetProductByID) // GET /products/{productId}
	})

	r.Route("/trade-suggestions", func(r chi.Router) {
		r.Get("/", h.ListTradeSuggestions)   // GET /trade-suggestions
		r.Post("/", h.CreateTradeSuggestion) // POST /trade-suggestions
	})

	r.Get("/categories", h.ListCategories) // GET /categories
}
