package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/perishables-api/internal/application/discount"
	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/internal/application/inventory"
	"github.com/jhoicas/perishables-api/internal/domain"
	policy "github.com/jhoicas/perishables-api/internal/domain/discount"
	"github.com/jhoicas/perishables-api/internal/domain/entity"
	"github.com/jhoicas/perishables-api/internal/domain/repository"
	"github.com/jhoicas/perishables-api/internal/domain/validation"
)

// ProductUseCase fachada de inventario: traduce DTOs, delega en el store y el motor de descuentos
// y registra cada operación. Los errores tipados del dominio se propagan sin envolver.
type ProductUseCase struct {
	store      *inventory.Store
	discounts  *discount.Engine
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	log        zerolog.Logger
}

// Option configura el caso de uso.
type Option func(*ProductUseCase)

// WithLogger asigna el logger (por defecto zerolog.Nop()).
func WithLogger(l zerolog.Logger) Option {
	return func(uc *ProductUseCase) { uc.log = l }
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	store *inventory.Store,
	discounts *discount.Engine,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	opts ...Option,
) *ProductUseCase {
	uc := &ProductUseCase{
		store:      store,
		discounts:  discounts,
		categories: categories,
		suppliers:  suppliers,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AddProduct recibe mercancía: crea el producto o acumula stock si ya existe con el mismo
// nombre, precio y vencimiento. Un producto vencido se rechaza con *domain.ExpiredError.
func (uc *ProductUseCase) AddProduct(ctx context.Context, in dto.ProductRequest) (*dto.AddProductResponse, error) {
	p, err := toEntity(0, in)
	if err != nil {
		uc.log.Warn().Err(err).Str("name", in.Name).Msg("producto inválido")
		return nil, err
	}
	res, err := uc.store.Upsert(ctx, p, true)
	if err != nil {
		uc.logFailure(err, "no se pudo agregar el producto", 0)
		return nil, err
	}
	uc.log.Info().Int64("product_id", res.Product.ID).Bool("created", res.Created).
		Int("stock", res.Product.Stock).Msg("producto agregado")
	return &dto.AddProductResponse{
		ProductResponse: toProductResponse(res.Product, uc.store.Today()),
		Created:         res.Created,
	}, nil
}

// ImportProducts carga masiva: los vencidos se omiten y las filas inválidas se informan sin
// detener la carga. Un error de infraestructura aborta y devuelve el resumen parcial.
func (uc *ProductUseCase) ImportProducts(ctx context.Context, rows []dto.ProductRequest) (*dto.ImportResult, error) {
	result := &dto.ImportResult{}
	for i, in := range rows {
		p, err := toEntity(0, in)
		if err == nil {
			// La carga masiva restaura inventario existente, con su indicador de descuento.
			p.Discounted = in.Discounted
			var res inventory.UpsertResult
			res, err = uc.store.Upsert(ctx, p, false)
			switch {
			case err != nil:
			case res.Skipped:
				result.Skipped++
			case res.Created:
				result.Created++
			default:
				result.Merged++
			}
		}
		if err != nil {
			if !domain.IsDomainError(err) {
				uc.log.Error().Err(err).Int("row", i+1).Msg("carga masiva interrumpida")
				return result, err
			}
			result.Failed = append(result.Failed, dto.ImportError{Row: i + 1, Message: err.Error()})
		}
	}
	uc.log.Info().Int("created", result.Created).Int("merged", result.Merged).
		Int("skipped", result.Skipped).Int("failed", len(result.Failed)).Msg("carga masiva completada")
	return result, nil
}

// GetAllProducts lista todo el inventario, incluidos los vencidos.
func (uc *ProductUseCase) GetAllProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.store.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Int("count", len(list)).Msg("inventario listado")
	return uc.toResponses(list), nil
}

// GetProduct obtiene un producto por ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(p, uc.store.Today())
	return &out, nil
}

// UpdateProduct reemplaza los campos del producto id.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id int64, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validation.ValidateID(id); err != nil {
		uc.log.Warn().Int64("product_id", id).Msg("id inválido para actualizar")
		return nil, err
	}
	p, err := toEntity(id, in)
	if err != nil {
		return nil, err
	}
	updated, err := uc.store.Update(ctx, p)
	if err != nil {
		uc.logFailure(err, "no se pudo actualizar el producto", id)
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Msg("producto actualizado")
	out := toProductResponse(updated, uc.store.Today())
	return &out, nil
}

// DeleteProduct elimina un producto.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	if err := uc.store.Delete(ctx, id); err != nil {
		uc.logFailure(err, "no se pudo eliminar el producto", id)
		return err
	}
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

// AdjustStock suma amount (puede ser negativo) al stock del producto.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id int64, amount int) (*dto.ProductResponse, error) {
	if err := validation.ValidateID(id); err != nil {
		uc.log.Warn().Int64("product_id", id).Msg("id inválido para ajuste de stock")
		return nil, err
	}
	p, err := uc.store.AdjustStock(ctx, id, amount)
	if err != nil {
		uc.logFailure(err, "no se pudo ajustar el stock", id)
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Int("amount", amount).Int("stock", p.Stock).Msg("stock ajustado")
	out := toProductResponse(p, uc.store.Today())
	return &out, nil
}

// FindByName busca productos cuyo nombre contiene substr, sin distinguir mayúsculas.
func (uc *ProductUseCase) FindByName(ctx context.Context, substr string) ([]dto.ProductResponse, error) {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		uc.log.Warn().Msg("búsqueda por nombre vacía")
		return nil, domain.NewValidationError("name", "el texto de búsqueda no puede estar vacío")
	}
	list, err := uc.store.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	matches := make([]entity.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	uc.log.Debug().Str("name", substr).Int("count", len(matches)).Msg("búsqueda por nombre")
	return uc.toResponses(matches), nil
}

// FindExpiringBefore devuelve los productos que vencen estrictamente antes de date (YYYY-MM-DD).
func (uc *ProductUseCase) FindExpiringBefore(ctx context.Context, date string) ([]dto.ProductResponse, error) {
	list, err := uc.ExpiringBefore(ctx, date)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list), nil
}

// ExpiringBefore igual que FindExpiringBefore pero devuelve entidades (reportes).
func (uc *ProductUseCase) ExpiringBefore(ctx context.Context, date string) ([]entity.Product, error) {
	limit, err := parseDate("date", date)
	if err != nil {
		uc.log.Warn().Str("date", date).Msg("fecha inválida para búsqueda por vencimiento")
		return nil, err
	}
	list, err := uc.store.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	matches := make([]entity.Product, 0, len(list))
	for _, p := range list {
		if p.ExpirationDate.Before(limit) {
			matches = append(matches, p)
		}
	}
	uc.log.Debug().Str("date", date).Int("count", len(matches)).Msg("búsqueda por vencimiento")
	return matches, nil
}

// ApplyManualDiscount aplica un descuento explícito, sin regla de elegibilidad.
func (uc *ProductUseCase) ApplyManualDiscount(ctx context.Context, id int64, in dto.ManualDiscountRequest) (*dto.ProductResponse, error) {
	if err := validation.ValidateID(id); err != nil {
		uc.log.Warn().Int64("product_id", id).Msg("id inválido para descuento")
		return nil, err
	}
	kind, err := policy.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	p, err := uc.discounts.ApplyManual(ctx, id, policy.Strategy{Kind: kind, Value: in.Value})
	if err != nil {
		uc.logFailure(err, "no se pudo aplicar el descuento manual", id)
		return nil, err
	}
	out := toProductResponse(p, uc.store.Today())
	return &out, nil
}

// ApplyDynamicDiscounts aplica la política de cercanía al vencimiento a todo el inventario.
func (uc *ProductUseCase) ApplyDynamicDiscounts(ctx context.Context) (*dto.DiscountRunResponse, error) {
	n, err := uc.discounts.ApplyAll(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DiscountRunResponse{Applied: n}, nil
}

// ApplyDynamicDiscount aplica la política a un producto; si no califica lo devuelve sin cambios.
func (uc *ProductUseCase) ApplyDynamicDiscount(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if err := validation.ValidateID(id); err != nil {
		uc.log.Warn().Int64("product_id", id).Msg("id inválido para descuento")
		return nil, err
	}
	p, err := uc.discounts.ApplyOne(ctx, id)
	if err != nil {
		uc.logFailure(err, "no se pudo aplicar el descuento", id)
		return nil, err
	}
	out := toProductResponse(p, uc.store.Today())
	return &out, nil
}

// ClearExpiredStock deja en cero el stock de los productos vencidos.
func (uc *ProductUseCase) ClearExpiredStock(ctx context.Context) (*dto.ClearExpiredResponse, error) {
	cleared, err := uc.store.ClearExpired(ctx, uc.store.Today())
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("cleared", len(cleared)).Msg("stock vencido ajustado")
	return &dto.ClearExpiredResponse{Cleared: len(cleared), Products: uc.toResponses(cleared)}, nil
}

// ProductHistory devuelve la auditoría de un producto (también de productos ya eliminados).
func (uc *ProductUseCase) ProductHistory(ctx context.Context, id int64) ([]dto.HistoryResponse, error) {
	records, err := uc.store.History(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.HistoryResponse{
			ID:        r.ID,
			ProductID: r.ProductID,
			Action:    string(r.Action),
			OldValue:  r.OldValue,
			NewValue:  r.NewValue,
			Timestamp: r.Timestamp,
		})
	}
	return out, nil
}

// AddCategory crea una categoría. Nombre repetido → domain.ErrDuplicate.
func (uc *ProductUseCase) AddCategory(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "no puede estar vacío")
	}
	c := &entity.Category{Name: name}
	if err := uc.categories.Create(ctx, c); err != nil {
		uc.logFailure(err, "no se pudo crear la categoría", 0)
		return nil, err
	}
	uc.log.Info().Int64("category_id", c.ID).Msg("categoría creada")
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// AddSupplier crea un proveedor. Nombre repetido → domain.ErrDuplicate.
func (uc *ProductUseCase) AddSupplier(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "no puede estar vacío")
	}
	s := &entity.Supplier{Name: name, ContactInfo: in.ContactInfo}
	if err := uc.suppliers.Create(ctx, s); err != nil {
		uc.logFailure(err, "no se pudo crear el proveedor", 0)
		return nil, err
	}
	uc.log.Info().Int64("supplier_id", s.ID).Msg("proveedor creado")
	return &dto.SupplierResponse{ID: s.ID, Name: s.Name, ContactInfo: s.ContactInfo}, nil
}

// GetCategory devuelve una categoría o *domain.NotFoundError.
func (uc *ProductUseCase) GetCategory(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	if err := validation.ValidateID(id); err != nil {
		return nil, err
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &domain.NotFoundError{Resource: "categoría", ID: id}
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name}, nil
}

// GetSupplier devuelve un proveedor o *domain.NotFoundError.
func (uc *ProductUseCase) GetSupplier(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	if err := validation.ValidateID(id); err != nil {
		return nil, err
	}
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &domain.NotFoundError{Resource: "proveedor", ID: id}
	}
	return &dto.SupplierResponse{ID: s.ID, Name: s.Name, ContactInfo: s.ContactInfo}, nil
}

// logFailure: warn para errores de dominio, error para infraestructura.
func (uc *ProductUseCase) logFailure(err error, msg string, id int64) {
	ev := uc.log.Error()
	if domain.IsDomainError(err) {
		ev = uc.log.Warn()
	}
	if id > 0 {
		ev = ev.Int64("product_id", id)
	}
	ev.Err(err).Msg(msg)
}

func (uc *ProductUseCase) toResponses(list []entity.Product) []dto.ProductResponse {
	today := uc.store.Today()
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p, today))
	}
	return out
}

// toEntity ignora in.Discounted: el indicador solo lo activa un descuento aplicado.
func toEntity(id int64, in dto.ProductRequest) (entity.Product, error) {
	var exp time.Time
	if strings.TrimSpace(in.ExpirationDate) != "" {
		var err error
		if exp, err = parseDate("expirationDate", in.ExpirationDate); err != nil {
			return entity.Product{}, err
		}
	}
	return entity.Product{
		ID:             id,
		Name:           in.Name,
		Price:          in.Price,
		Stock:          in.Stock,
		ExpirationDate: exp,
		CategoryID:     in.CategoryID,
		SupplierID:     in.SupplierID,
	}, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := entity.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, fmt.Sprintf("fecha %q inválida, se espera YYYY-MM-DD", s))
	}
	return t, nil
}

func toProductResponse(p entity.Product, today time.Time) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price.StringFixed(2),
		Stock:           p.Stock,
		ExpirationDate:  p.ExpirationDate.Format(time.DateOnly),
		Discounted:      p.Discounted,
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		DaysUntilExpiry: entity.DaysBetween(today, p.ExpirationDate),
	}
}
