package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/apperr"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
)

func newCheckoutService(t *testing.T, products ...*entity.Product) (*OrderService, *memProductRepo, *memOrderRepo) {
	t.Helper()
	t.Setenv("ENV", "test")
	productRepo := newMemProductRepo(products...)
	orderRepo := newMemOrderRepo(productRepo)
	return NewOrderService(orderRepo, productRepo, nil, nil), productRepo, orderRepo
}

func validCustomerInfo() entity.CustomerInfo {
	return entity.CustomerInfo{Name: "Rani", Email: "rani@example.com", Address: "Jl. Sudirman 1"}
}

func TestCheckoutIgnoresClientPrices(t *testing.T) {
	svc, productRepo, _ := newCheckoutService(t, &entity.Product{
		ID: 1, Name: "Wireless Mouse", Category: "electronics", Price: 10.00, Stock: 5,
	})

	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 1, Name: "hacked", Price: 999, Quantity: 2}},
		CustomerInfo: validCustomerInfo(),
		TotalAmount:  0.01,
	}, "")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	if order.ID != 1 {
		t.Errorf("expected order id 1, got %d", order.ID)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.Price != 10.00 {
		t.Errorf("expected catalog price 10.00, got %v", item.Price)
	}
	if item.Name != "Wireless Mouse" {
		t.Errorf("expected catalog name, got %q", item.Name)
	}
	if item.Total != 20.00 {
		t.Errorf("expected line total 20.00, got %v", item.Total)
	}
	if order.TotalAmount != 20.00 {
		t.Errorf("expected total 20.00, got %v", order.TotalAmount)
	}
	if order.Status != "pending" {
		t.Errorf("expected status pending, got %q", order.Status)
	}
	if got := productRepo.stockOf(1); got != 3 {
		t.Errorf("expected stock 3 after checkout, got %d", got)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, orderRepo := newCheckoutService(t)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		CustomerInfo: validCustomerInfo(),
	}, "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(orderRepo.orders) != 0 {
		t.Errorf("expected no order to be created")
	}
}

func TestCheckoutMissingCustomerInfo(t *testing.T) {
	svc, productRepo, _ := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 5})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 1, Quantity: 1}},
		CustomerInfo: entity.CustomerInfo{Name: "Rani", Email: "rani@example.com"},
	}, "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := productRepo.stockOf(1); got != 5 {
		t.Errorf("stock changed on failed checkout: %d", got)
	}
}

func TestCheckoutRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 5})

	for _, qty := range []int{0, -2} {
		_, err := svc.Checkout(context.Background(), CheckoutRequest{
			Items:        []CheckoutItem{{ProductID: 1, Quantity: qty}},
			CustomerInfo: validCustomerInfo(),
		}, "")
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Errorf("quantity %d: expected validation error, got %v", qty, err)
		}
	}
}

func TestCheckoutUnknownProduct(t *testing.T) {
	svc, _, _ := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 5})

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 42, Quantity: 1}},
		CustomerInfo: validCustomerInfo(),
	}, "")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCheckoutInsufficientStockIsAllOrNothing(t *testing.T) {
	svc, productRepo, orderRepo := newCheckoutService(t,
		&entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 5},
		&entity.Product{ID: 2, Name: "Keyboard", Price: 30, Stock: 1},
	)

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
		CustomerInfo: validCustomerInfo(),
	}, "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Keyboard") {
		t.Errorf("expected error to name the short product, got %q", err.Error())
	}
	if got := productRepo.stockOf(1); got != 5 {
		t.Errorf("product 1 stock mutated on failed checkout: %d", got)
	}
	if got := productRepo.stockOf(2); got != 1 {
		t.Errorf("product 2 stock mutated on failed checkout: %d", got)
	}
	if len(orderRepo.orders) != 0 {
		t.Errorf("expected no order to be created")
	}
}

func TestCheckoutAggregatesDuplicateLines(t *testing.T) {
	svc, productRepo, _ := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 3})

	// 2 + 2 of the same product must be checked as 4, not twice as 2.
	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 2},
		},
		CustomerInfo: validCustomerInfo(),
	}, "")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if got := productRepo.stockOf(1); got != 3 {
		t.Errorf("stock mutated on failed checkout: %d", got)
	}
}

func TestCheckoutConcurrentDoesNotOversell(t *testing.T) {
	svc, productRepo, orderRepo := newCheckoutService(t, &entity.Product{ID: 1, Name: "Last Unit", Price: 10, Stock: 1})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Checkout(context.Background(), CheckoutRequest{
				Items:        []CheckoutItem{{ProductID: 1, Quantity: 1}},
				CustomerInfo: validCustomerInfo(),
			}, "")
		}(i)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperr.KindOf(err) == apperr.KindConflict:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", succeeded, conflicted)
	}
	if got := productRepo.stockOf(1); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
	if len(orderRepo.orders) != 1 {
		t.Errorf("expected exactly one order, got %d", len(orderRepo.orders))
	}
}

func TestCheckoutReusesDeletedOrderID(t *testing.T) {
	svc, _, orderRepo := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 100})

	for i := 0; i < 3; i++ {
		if _, err := svc.Checkout(context.Background(), CheckoutRequest{
			Items:        []CheckoutItem{{ProductID: 1, Quantity: 1}},
			CustomerInfo: validCustomerInfo(),
		}, ""); err != nil {
			t.Fatalf("Checkout returned error: %v", err)
		}
	}
	orderRepo.deleteOrder(3)

	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 1, Quantity: 1}},
		CustomerInfo: validCustomerInfo(),
	}, "")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if order.ID != 3 {
		t.Errorf("expected id 3 to be reused after deletion, got %d", order.ID)
	}
}

func TestCheckoutDefaultsGuestUser(t *testing.T) {
	svc, _, _ := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 5})

	order, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 1, Quantity: 1}},
		CustomerInfo: validCustomerInfo(),
	}, "")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if order.UserID != "guest" {
		t.Errorf("expected guest user id, got %q", order.UserID)
	}
}

func TestCheckoutPersistenceFailure(t *testing.T) {
	svc, productRepo, orderRepo := newCheckoutService(t, &entity.Product{ID: 1, Name: "Mouse", Price: 10, Stock: 5})
	orderRepo.failCreate = errors.New("connection reset")

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:        []CheckoutItem{{ProductID: 1, Quantity: 1}},
		CustomerInfo: validCustomerInfo(),
	}, "")
	if apperr.KindOf(err) != apperr.KindPersistence {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if got := productRepo.stockOf(1); got != 5 {
		t.Errorf("stock mutated on failed persist: %d", got)
	}
}

func TestGetOrdersByUserNewestFirst(t *testing.T) {
	t.Setenv("ENV", "test")
	productRepo := newMemProductRepo()
	orderRepo := newMemOrderRepo(productRepo)
	svc := NewOrderService(orderRepo, productRepo, nil, nil)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	orderRepo.orders[1] = &entity.Order{ID: 1, UserID: "7", TotalAmount: 10, CreatedAt: base}
	orderRepo.orders[2] = &entity.Order{ID: 2, UserID: "7", TotalAmount: 20, CreatedAt: base.Add(time.Hour)}
	orderRepo.orders[3] = &entity.Order{ID: 3, UserID: "8", TotalAmount: 30, CreatedAt: base.Add(2 * time.Hour)}

	orders, err := svc.GetOrdersByUser(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetOrdersByUser returned error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != 2 || orders[1].ID != 1 {
		t.Errorf("expected newest first [2 1], got [%d %d]", orders[0].ID, orders[1].ID)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _, _ := newCheckoutService(t)

	_, err := svc.GetOrder(context.Background(), 99)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
