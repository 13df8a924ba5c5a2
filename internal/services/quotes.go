package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tpworkshop/garage-quotes/internal/events"
	"github.com/tpworkshop/garage-quotes/internal/models"
)

// ErrNotFound is returned when a quote or product id does not resolve.
var ErrNotFound = errors.New("not found")

// QuoteInput carries the quote form fields.
type QuoteInput struct {
	No                    string
	CustomerName          string
	PhoneNumber           string
	Address               string
	TaxCode               string
	CarModel              string
	CarRegistrationNumber string
	CarVin                string
	CarOdometer           int
	Date                  time.Time
}

// ProductInput carries the product dialog fields.
type ProductInput struct {
	Name      string
	UnitPrice int
	Quantity  int
	Unit      string
	VAT       int
	Category  string
}

// QuoteService owns all writes against the quote and product collections.
// Writes that touch two documents (a product row plus the owning quote's
// reference list) run in one transaction, and every successful write is
// published on the bus.
type QuoteService struct {
	DB  *gorm.DB
	Bus *events.Bus
}

func NewQuoteService(db *gorm.DB, bus *events.Bus) *QuoteService {
	return &QuoteService{DB: db, Bus: bus}
}

// CreateQuote inserts a new quote with a fresh id and an empty reference list.
func (s *QuoteService) CreateQuote(in QuoteInput) (models.Quote, error) {
	q := models.Quote{
		ID:                    uuid.NewString(),
		No:                    in.No,
		CustomerName:          in.CustomerName,
		PhoneNumber:           in.PhoneNumber,
		Address:               in.Address,
		TaxCode:               in.TaxCode,
		CarModel:              in.CarModel,
		CarRegistrationNumber: in.CarRegistrationNumber,
		CarVin:                in.CarVin,
		CarOdometer:           in.CarOdometer,
		Date:                  in.Date,
		ProductIDs:            []string{},
	}
	if err := s.DB.Create(&q).Error; err != nil {
		return models.Quote{}, err
	}
	s.publish(q.ID)
	return q, nil
}

// UpdateQuote patches the form fields of an existing quote. The id, the
// reference list and createdAt are never touched here.
func (s *QuoteService) UpdateQuote(id string, in QuoteInput) error {
	res := s.DB.Model(&models.Quote{}).Where("id = ?", id).Updates(map[string]any{
		"no":                      in.No,
		"customer_name":           in.CustomerName,
		"phone_number":            in.PhoneNumber,
		"address":                 in.Address,
		"tax_code":                in.TaxCode,
		"car_model":               in.CarModel,
		"car_registration_number": in.CarRegistrationNumber,
		"car_vin":                 in.CarVin,
		"car_odometer":            in.CarOdometer,
		"date":                    in.Date,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.publish(id)
	return nil
}

// DeleteQuote removes the quote and every product it references, in one
// transaction, so owned products cannot leak.
func (s *QuoteService) DeleteQuote(id string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var q models.Quote
		if err := tx.First(&q, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if len(q.ProductIDs) > 0 {
			if err := tx.Where("id IN ?", []string(q.ProductIDs)).Delete(&models.Product{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Quote{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	s.publish(id)
	return nil
}

// Get loads one quote by id.
func (s *QuoteService) Get(id string) (models.Quote, error) {
	var q models.Quote
	if err := s.DB.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quote{}, ErrNotFound
		}
		return models.Quote{}, err
	}
	return q, nil
}

// List returns a page of quotes, newest first, optionally filtered by a
// case-insensitive match on quote number, customer name or phone.
func (s *QuoteService) List(limit, offset int, query string) ([]models.Quote, int64, error) {
	dbq := s.DB.Model(&models.Quote{})
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbq = dbq.Where("lower(no) LIKE ? OR lower(customer_name) LIKE ? OR phone_number LIKE ?", like, like, like)
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var quotes []models.Quote
	if err := dbq.Order("created_at desc").Limit(limit).Offset(offset).Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

// Products resolves a quote's reference list. Ids that no longer resolve are
// skipped; the result is sorted case-insensitively by name for display.
func (s *QuoteService) Products(q models.Quote) ([]models.Product, error) {
	if len(q.ProductIDs) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := s.DB.Where("id IN ?", []string(q.ProductIDs)).Find(&products).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

// AddProduct inserts a product and appends its id to the owning quote's
// reference list in the same transaction.
func (s *QuoteService) AddProduct(quoteID string, in ProductInput) (models.Product, error) {
	p := models.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		UnitPrice: in.UnitPrice,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		VAT:       in.VAT,
		Category:  in.Category,
	}
	if p.Quantity < 1 {
		p.Quantity = 1
	}
	if p.Category == "" {
		p.Category = models.CategoryParts
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var q models.Quote
		if err := tx.First(&q, "id = ?", quoteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		ids := append(q.ProductIDs, p.ID)
		return tx.Model(&models.Quote{}).Where("id = ?", quoteID).Update("product_ids", ids).Error
	})
	if err != nil {
		return models.Product{}, err
	}
	s.publish(quoteID)
	return p, nil
}

// UpdateProduct patches a product's fields.
func (s *QuoteService) UpdateProduct(quoteID, id string, in ProductInput) error {
	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}
	category := in.Category
	if category == "" {
		category = models.CategoryParts
	}
	res := s.DB.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"name":       in.Name,
		"unit_price": in.UnitPrice,
		"quantity":   quantity,
		"unit":       in.Unit,
		"vat":        in.VAT,
		"category":   category,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.publish(quoteID)
	return nil
}

// RemoveProduct deletes the product row and pulls its id from the owning
// quote's reference list in one transaction.
func (s *QuoteService) RemoveProduct(quoteID, id string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var q models.Quote
		if err := tx.First(&q, "id = ?", quoteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		ids := make([]string, 0, len(q.ProductIDs))
		for _, pid := range q.ProductIDs {
			if pid != id {
				ids = append(ids, pid)
			}
		}
		return tx.Model(&models.Quote{}).Where("id = ?", quoteID).Update("product_ids", ids).Error
	})
	if err != nil {
		return err
	}
	s.publish(quoteID)
	return nil
}

func (s *QuoteService) publish(quoteID string) {
	if s.Bus != nil {
		s.Bus.Publish(events.Change{QuoteID: quoteID})
	}
}
