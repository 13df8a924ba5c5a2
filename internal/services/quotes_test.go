package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tpworkshop/garage-quotes/internal/events"
	"github.com/tpworkshop/garage-quotes/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Quote{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testQuoteInput() QuoteInput {
	return QuoteInput{
		No:           "BG-001",
		CustomerName: "Nguyễn Văn An",
		PhoneNumber:  "0912345678",
		CarModel:     "Toyota Vios",
		Date:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateQuote(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)

	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	require.NotEmpty(t, q.ID)
	require.Empty(t, q.ProductIDs)

	got, err := svc.Get(q.ID)
	require.NoError(t, err)
	require.Equal(t, "Nguyễn Văn An", got.CustomerName)
	require.NotNil(t, got.ProductIDs)
	require.Empty(t, got.ProductIDs)
}

func TestUpdateQuotePatchesFields(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	_, err = svc.AddProduct(q.ID, ProductInput{Name: "Lọc dầu", UnitPrice: 150000, Quantity: 1, Unit: "cái", Category: models.CategoryParts})
	require.NoError(t, err)

	in := testQuoteInput()
	in.CustomerName = "Trần Thị Bình"
	in.CarOdometer = 45000
	require.NoError(t, err)
	require.NoError(t, svc.UpdateQuote(q.ID, in))

	got, err := svc.Get(q.ID)
	require.NoError(t, err)
	require.Equal(t, "Trần Thị Bình", got.CustomerName)
	require.Equal(t, 45000, got.CarOdometer)
	// the reference list is not touched by a quote patch
	require.Len(t, got.ProductIDs, 1)
}

func TestUpdateQuoteNotFound(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	require.ErrorIs(t, svc.UpdateQuote("missing", testQuoteInput()), ErrNotFound)
}

func TestAddProductAppendsReference(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)

	p, err := svc.AddProduct(q.ID, ProductInput{Name: "Lọc gió", UnitPrice: 250000, Quantity: 2, Unit: "cái", VAT: 10, Category: models.CategoryParts})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	got, err := svc.Get(q.ID)
	require.NoError(t, err)
	require.Equal(t, []string{p.ID}, []string(got.ProductIDs))

	products, err := svc.Products(got)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Lọc gió", products[0].Name)
}

func TestAddProductDefaults(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)

	p, err := svc.AddProduct(q.ID, ProductInput{Name: "Công thay lốp", Unit: "lần"})
	require.NoError(t, err)
	require.Equal(t, 1, p.Quantity)
	require.Equal(t, models.CategoryParts, p.Category)
}

func TestAddProductQuoteMissing(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	_, err := svc.AddProduct("missing", ProductInput{Name: "Lọc dầu", Unit: "cái"})
	require.ErrorIs(t, err, ErrNotFound)

	// nothing must be left behind by the rolled-back transaction
	var count int64
	require.NoError(t, svc.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRemoveProductPullsReference(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	p1, err := svc.AddProduct(q.ID, ProductInput{Name: "Lọc dầu", UnitPrice: 150000, Unit: "cái"})
	require.NoError(t, err)
	p2, err := svc.AddProduct(q.ID, ProductInput{Name: "Lọc gió", UnitPrice: 250000, Unit: "cái"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveProduct(q.ID, p1.ID))

	got, err := svc.Get(q.ID)
	require.NoError(t, err)
	require.Equal(t, []string{p2.ID}, []string(got.ProductIDs))

	var count int64
	require.NoError(t, svc.DB.Model(&models.Product{}).Where("id = ?", p1.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestRemoveProductNotFound(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	require.ErrorIs(t, svc.RemoveProduct(q.ID, "missing"), ErrNotFound)
}

func TestUpdateProduct(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	p, err := svc.AddProduct(q.ID, ProductInput{Name: "Lọc dầu", UnitPrice: 150000, Quantity: 1, Unit: "cái"})
	require.NoError(t, err)

	err = svc.UpdateProduct(q.ID, p.ID, ProductInput{Name: "Lọc dầu động cơ", UnitPrice: 180000, Quantity: 2, Unit: "cái", VAT: 8, Category: models.CategoryParts})
	require.NoError(t, err)

	products, err := svc.Products(models.Quote{ProductIDs: []string{p.ID}})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Lọc dầu động cơ", products[0].Name)
	require.Equal(t, 180000, products[0].UnitPrice)
	require.Equal(t, 2, products[0].Quantity)
	require.Equal(t, 8, products[0].VAT)
}

func TestDeleteQuoteCascades(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	_, err = svc.AddProduct(q.ID, ProductInput{Name: "Lọc dầu", Unit: "cái"})
	require.NoError(t, err)
	_, err = svc.AddProduct(q.ID, ProductInput{Name: "Công thay", Unit: "lần", Category: models.CategoryFittingLabor})
	require.NoError(t, err)

	// a product owned by another quote must survive the cascade
	other, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	kept, err := svc.AddProduct(other.ID, ProductInput{Name: "Má phanh", Unit: "bộ"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuote(q.ID))

	_, err = svc.Get(q.ID)
	require.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, svc.DB.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	products, err := svc.Products(models.Quote{ProductIDs: []string{kept.ID}})
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestDeleteQuoteNotFound(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	require.ErrorIs(t, svc.DeleteQuote("missing"), ErrNotFound)
}

func TestProductsSkipsDanglingRefsAndSorts(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	pb, err := svc.AddProduct(q.ID, ProductInput{Name: "bugi", Unit: "cái"})
	require.NoError(t, err)
	pa, err := svc.AddProduct(q.ID, ProductInput{Name: "Ắc quy", Unit: "bình"})
	require.NoError(t, err)

	got, err := svc.Get(q.ID)
	require.NoError(t, err)
	got.ProductIDs = append(got.ProductIDs, "dangling")

	products, err := svc.Products(got)
	require.NoError(t, err)
	require.Len(t, products, 2)
	// lowered byte order puts ASCII "bugi" before the multi-byte "ắc quy"
	require.Equal(t, pb.ID, products[0].ID)
	require.Equal(t, pa.ID, products[1].ID)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc := NewQuoteService(setupTestDB(t), nil)
	for i, name := range []string{"Nguyễn Văn An", "Trần Thị Bình", "Lê Văn Cường"} {
		in := testQuoteInput()
		in.No = "BG-00" + string(rune('1'+i))
		in.CustomerName = name
		_, err := svc.CreateQuote(in)
		require.NoError(t, err)
	}

	all, total, err := svc.List(10, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.EqualValues(t, 3, total)

	page, total, err := svc.List(2, 2, "")
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.EqualValues(t, 3, total)

	hits, total, err := svc.List(10, 0, "bg-002")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Trần Thị Bình", hits[0].CustomerName)
}

func TestWritesPublishChanges(t *testing.T) {
	bus := events.NewBus()
	svc := NewQuoteService(setupTestDB(t), bus)
	ch, cancel := bus.Subscribe()
	defer cancel()

	q, err := svc.CreateQuote(testQuoteInput())
	require.NoError(t, err)
	_, err = svc.AddProduct(q.ID, ProductInput{Name: "Lọc dầu", Unit: "cái"})
	require.NoError(t, err)

	select {
	case change := <-ch:
		require.Equal(t, q.ID, change.QuoteID)
	case <-time.After(time.Second):
		t.Fatal("no change published")
	}
}
