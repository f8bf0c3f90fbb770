package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"restaurant-backend/internal/apperr"
	"restaurant-backend/internal/clock"
	"restaurant-backend/internal/models"
)

type fakeMenu map[primitive.ObjectID]models.MenuItem

func (m fakeMenu) Lookup(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error) {
	out := make(map[primitive.ObjectID]models.MenuItem)
	for _, id := range ids {
		if item, ok := m[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

// flakyMenu answers the first ok lookups and fails every one after.
type flakyMenu struct {
	fakeMenu
	ok    int
	calls int
}

func (m *flakyMenu) Lookup(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.MenuItem, error) {
	m.calls++
	if m.calls > m.ok {
		return nil, errors.New("catalog down")
	}
	return m.fakeMenu.Lookup(ctx, ids)
}

type fixture struct {
	store  *Store
	repo   *MemoryRepository
	menu   fakeMenu
	clock  *clock.Fixed
	burger models.MenuItem
	fries  models.MenuItem
}

func newFixture() *fixture {
	burger := models.MenuItem{ID: primitive.NewObjectID(), Name: "Burger", Category: models.CategoryMain, Price: 12.5}
	fries := models.MenuItem{ID: primitive.NewObjectID(), Name: "Fries", Category: models.CategoryAppetizer, Price: 4.25}
	menu := fakeMenu{burger.ID: burger, fries.ID: fries}
	repo := NewMemoryRepository()
	clk := &clock.Fixed{At: time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)}
	return &fixture{
		store:  NewStore(repo, menu, clk, zap.NewNop()),
		repo:   repo,
		menu:   menu,
		clock:  clk,
		burger: burger,
		fries:  fries,
	}
}

func ptr(v float64) *float64 { return &v }

func (f *fixture) draft() Draft {
	return Draft{
		CustomerName:  "Ada",
		CustomerPhone: "555-0100",
		OrderType:     models.OrderTypeTakeout,
		Items: []LineDraft{
			{MenuItemID: f.burger.ID.Hex(), Name: "Burger", Price: ptr(12.5), Quantity: 2},
			{MenuItemID: f.fries.ID.Hex(), Name: "Fries", Price: ptr(4.25), Quantity: 1},
		},
	}
}

func (f *fixture) create(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.store.Create(context.Background(), f.draft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return order
}

func TestCreateAssignsDefaultsAndTotal(t *testing.T) {
	f := newFixture()
	order := f.create(t)

	if order.ID.IsZero() || !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Fatalf("expected id and order number, got %q %q", order.ID.Hex(), order.OrderNumber)
	}
	if order.Status != models.StatusPlaced || order.PaymentStatus != models.PaymentPending {
		t.Fatalf("unexpected defaults status=%s payment=%s", order.Status, order.PaymentStatus)
	}
	if !order.Timestamps.Placed.Equal(f.clock.At) || !order.CreatedAt.Equal(f.clock.At) {
		t.Fatalf("expected placed stamp from clock, got %v", order.Timestamps.Placed)
	}
	if order.TotalAmount != 29.25 {
		t.Fatalf("expected total 29.25, got %v", order.TotalAmount)
	}
	if ref := order.Items[0].MenuItem; ref == nil || ref.Category != models.CategoryMain {
		t.Fatalf("expected populated menu item, got %+v", ref)
	}
}

func TestCreateFillsLineFromCatalog(t *testing.T) {
	f := newFixture()
	d := f.draft()
	d.Items = []LineDraft{{MenuItemID: f.fries.ID.Hex(), Quantity: 4}}

	order, err := f.store.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.Items[0].Name != "Fries" || order.Items[0].Price != 4.25 || order.TotalAmount != 17 {
		t.Fatalf("unexpected line %+v total %v", order.Items[0], order.TotalAmount)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(*Draft)
		want   string
	}{
		{name: "customer name", mutate: func(d *Draft) { d.CustomerName = " " }, want: "customerName is required"},
		{name: "customer phone", mutate: func(d *Draft) { d.CustomerPhone = "" }, want: "customerPhone is required"},
		{name: "order type", mutate: func(d *Draft) { d.OrderType = "drive-thru" }, want: "drive-thru is not a valid orderType"},
		{name: "no items", mutate: func(d *Draft) { d.Items = nil }, want: "items must contain at least 1 entry"},
		{name: "quantity", mutate: func(d *Draft) { d.Items[0].Quantity = 0 }, want: "items[0].quantity must be at least 1"},
		{name: "delivery address", mutate: func(d *Draft) { d.OrderType = models.OrderTypeDelivery }, want: "deliveryAddress is required for delivery orders"},
		{name: "missing menu item id", mutate: func(d *Draft) { d.Items[1].MenuItemID = "" }, want: "items[1].menuItemId is required"},
		{name: "malformed menu item id", mutate: func(d *Draft) { d.Items[1].MenuItemID = "abc" }, want: `items[1].menuItemId "abc" is not a valid id`},
		{name: "unknown menu item", mutate: func(d *Draft) { d.Items[0].MenuItemID = primitive.NewObjectID().Hex() }, want: "does not match any menu item"},
		{name: "payment status", mutate: func(d *Draft) { d.PaymentStatus = "owed" }, want: "owed is not a valid paymentStatus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := f.draft()
			tt.mutate(&d)

			_, err := f.store.Create(context.Background(), d)

			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(strings.Join(verr.Fields, "|"), tt.want) {
				t.Fatalf("expected %q among %v", tt.want, verr.Fields)
			}
		})
	}

	if n, _ := f.repo.Count(context.Background()); n != 0 {
		t.Fatalf("rejected drafts must not be stored, found %d", n)
	}
}

func TestCreateIssuesUniqueOrderNumbers(t *testing.T) {
	f := newFixture()
	seen := make(map[string]struct{})

	for i := 0; i < 50; i++ {
		order := f.create(t)
		if _, dup := seen[order.OrderNumber]; dup {
			t.Fatalf("order number %s issued twice", order.OrderNumber)
		}
		seen[order.OrderNumber] = struct{}{}
	}
}

func TestCreateRegeneratesDuplicateOrderNumber(t *testing.T) {
	f := newFixture()
	calls := 0
	f.store.numbers = func(time.Time) string {
		calls++
		if calls <= 2 {
			return "ORD-1-AAAAAA"
		}
		return fmt.Sprintf("ORD-1-%06d", calls)
	}

	f.create(t)
	second := f.create(t)

	if second.OrderNumber != "ORD-1-000003" || calls != 3 {
		t.Fatalf("expected regeneration, got %q after %d calls", second.OrderNumber, calls)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture()
	f.store.numbers = func(time.Time) string { return "ORD-1-SAME" }

	f.create(t)
	_, err := f.store.Create(context.Background(), f.draft())
	if !errors.Is(err, ErrDuplicateOrderNumber) {
		t.Fatalf("expected duplicate order number error, got %v", err)
	}
}

func TestTransitionStatusHappyPath(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := f.create(t)
	id := order.ID.Hex()

	stamps := map[models.OrderStatus]time.Time{}
	for _, next := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusDelivered} {
		f.clock.Advance(10 * time.Minute)
		stamps[next] = f.clock.At

		updated, err := f.store.TransitionStatus(ctx, id, next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("expected status %s, got %s", next, updated.Status)
		}
	}

	final, err := f.store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	ts := final.Timestamps
	if !ts.Placed.Equal(order.Timestamps.Placed) {
		t.Fatalf("placed stamp changed to %v", ts.Placed)
	}
	if !ts.Preparing.Equal(stamps[models.StatusPreparing]) ||
		!ts.Ready.Equal(stamps[models.StatusReady]) ||
		!ts.Delivered.Equal(stamps[models.StatusDelivered]) {
		t.Fatalf("unexpected stamps %+v", ts)
	}
	if ts.Cancelled != nil {
		t.Fatal("cancelled must stay unset")
	}
}

func TestTransitionStatusRejectsSkippingStages(t *testing.T) {
	f := newFixture()
	order := f.create(t)

	_, err := f.store.TransitionStatus(context.Background(), order.ID.Hex(), models.StatusDelivered)

	var terr *apperr.InvalidTransitionError
	if !errors.As(err, &terr) || terr.From != "placed" || terr.To != "delivered" {
		t.Fatalf("expected invalid transition placed->delivered, got %v", err)
	}
	stored, _ := f.store.Get(context.Background(), order.ID.Hex())
	if stored.Status != models.StatusPlaced || stored.Timestamps.Delivered != nil {
		t.Fatalf("rejected transition must not persist, got %+v", stored)
	}
}

func TestTerminalOrdersRejectEveryTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	delivered := f.create(t)
	for _, s := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusDelivered} {
		if _, err := f.store.TransitionStatus(ctx, delivered.ID.Hex(), s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
	cancelled := f.create(t)
	if _, err := f.store.Cancel(ctx, cancelled.ID.Hex()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	all := []models.OrderStatus{models.StatusPlaced, models.StatusPreparing, models.StatusReady, models.StatusDelivered, models.StatusCancelled}
	for _, order := range []*models.Order{delivered, cancelled} {
		for _, s := range all {
			_, err := f.store.TransitionStatus(ctx, order.ID.Hex(), s)
			var terr *apperr.InvalidTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("order %s: expected invalid transition to %s, got %v", order.OrderNumber, s, err)
			}
		}
	}
}

func TestCancelStampsCancelled(t *testing.T) {
	f := newFixture()
	order := f.create(t)
	f.clock.Advance(time.Minute)

	cancelled, err := f.store.Cancel(context.Background(), order.ID.Hex())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled || cancelled.Timestamps.Cancelled == nil ||
		!cancelled.Timestamps.Cancelled.Equal(f.clock.At) {
		t.Fatalf("unexpected cancelled order %+v", cancelled)
	}
}

func TestTransitionStatusErrors(t *testing.T) {
	f := newFixture()
	order := f.create(t)

	var verr *apperr.ValidationError
	if _, err := f.store.TransitionStatus(context.Background(), order.ID.Hex(), "shipped"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	var nf *apperr.NotFoundError
	if _, err := f.store.TransitionStatus(context.Background(), primitive.NewObjectID().Hex(), models.StatusReady); !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.store.Cancel(context.Background(), "nope"); !errors.As(err, &nf) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestReplaceItemsRecomputesTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := f.create(t)
	if _, err := f.store.TransitionStatus(ctx, order.ID.Hex(), models.StatusPreparing); err != nil {
		t.Fatalf("transition: %v", err)
	}
	f.clock.Advance(time.Minute)

	updated, err := f.store.ReplaceItems(ctx, order.ID.Hex(), []LineDraft{
		{
			MenuItemID: f.burger.ID.Hex(),
			Quantity:   3,
			Customizations: []models.Customization{
				{Name: "Cheese", Value: "cheddar", AdditionalPrice: 1},
			},
		},
	})
	if err != nil {
		t.Fatalf("replace items: %v", err)
	}
	if len(updated.Items) != 1 || updated.TotalAmount != 40.5 {
		t.Fatalf("expected one line totalling 40.5, got %d lines and %v", len(updated.Items), updated.TotalAmount)
	}
	if updated.Status != models.StatusPreparing || updated.Timestamps.Preparing == nil {
		t.Fatalf("status and timestamps must be preserved, got %+v", updated)
	}
	if !updated.UpdatedAt.Equal(f.clock.At) {
		t.Fatalf("expected updatedAt %v, got %v", f.clock.At, updated.UpdatedAt)
	}

	var verr *apperr.ValidationError
	if _, err := f.store.ReplaceItems(ctx, order.ID.Hex(), nil); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
}

func TestCatalogEditsDoNotChangeSnapshot(t *testing.T) {
	f := newFixture()
	order := f.create(t)

	repriced := f.burger
	repriced.Price = 99
	repriced.Category = models.CategoryDessert
	f.menu[repriced.ID] = repriced

	got, err := f.store.Get(context.Background(), order.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Items[0].Price != 12.5 || got.TotalAmount != 29.25 {
		t.Fatalf("snapshot changed: price %v total %v", got.Items[0].Price, got.TotalAmount)
	}
	if got.Items[0].MenuItem.Price != 99 || got.Items[0].MenuItem.Category != models.CategoryDessert {
		t.Fatalf("expected live catalog view, got %+v", got.Items[0].MenuItem)
	}

	delete(f.menu, f.fries.ID)
	got, _ = f.store.Get(context.Background(), order.ID.Hex())
	if got.Items[1].MenuItem != nil {
		t.Fatalf("expected nil reference for removed item, got %+v", got.Items[1].MenuItem)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var created []*models.Order
	for i := 0; i < 5; i++ {
		d := f.draft()
		if i%2 == 0 {
			d.OrderType = models.OrderTypeDineIn
			d.CustomerID = "regular"
		}
		order, err := f.store.Create(ctx, d)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		created = append(created, order)
		f.clock.Advance(time.Hour)
	}

	orders, page, err := f.store.List(ctx, Filter{Page: models.PageRequest{Page: 1, Limit: 2}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != created[4].ID || orders[1].ID != created[3].ID {
		t.Fatal("expected newest orders first")
	}
	if page.TotalItems != 5 || page.TotalPages != 3 || !page.HasNextPage {
		t.Fatalf("unexpected pagination %+v", page)
	}

	orders, _, err = f.store.List(ctx, Filter{OrderType: models.OrderTypeDineIn, CustomerID: "regular", Ascending: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 3 || orders[0].ID != created[0].ID {
		t.Fatalf("expected three dine-in orders oldest first, got %d", len(orders))
	}

	from := created[1].CreatedAt
	to := created[2].CreatedAt
	orders, _, err = f.store.List(ctx, Filter{From: &from, To: &to})
	if err != nil || len(orders) != 2 {
		t.Fatalf("expected inclusive range to hold two orders, got %d (%v)", len(orders), err)
	}
}

func TestListEmptyDateRange(t *testing.T) {
	f := newFixture()
	f.create(t)

	from := f.clock.At.AddDate(1, 0, 0)
	to := from.AddDate(0, 1, 0)
	orders, page, err := f.store.List(context.Background(), Filter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("expected empty non-nil page, got %v", orders)
	}
	if page.TotalItems != 0 || page.TotalPages != 0 || page.CurrentPage != 1 {
		t.Fatalf("unexpected pagination %+v", page)
	}
}

func TestListPastTheEndPage(t *testing.T) {
	f := newFixture()
	f.create(t)

	orders, page, err := f.store.List(context.Background(), Filter{Page: models.PageRequest{Page: 1 << 62, Limit: 20}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders past the end, got %d", len(orders))
	}
	if page.TotalItems != 1 || page.TotalPages != 1 || page.HasNextPage || !page.HasPrevPage {
		t.Fatalf("unexpected pagination %+v", page)
	}
}

func TestWritesSurviveCatalogOutageAfterCommit(t *testing.T) {
	f := newFixture()
	menu := &flakyMenu{fakeMenu: f.menu, ok: 1}
	f.store = NewStore(f.repo, menu, f.clock, zap.NewNop())
	ctx := context.Background()

	order, err := f.store.Create(ctx, f.draft())
	if err != nil {
		t.Fatalf("expected the stored order despite the failed join, got %v", err)
	}
	if order.OrderNumber == "" || order.TotalAmount != 29.25 {
		t.Fatalf("unexpected order %+v", order)
	}
	for i, line := range order.Items {
		if line.MenuItem != nil {
			t.Fatalf("line %d: expected no menu item details, got %+v", i, line.MenuItem)
		}
	}
	if n, _ := f.repo.Count(ctx); n != 1 {
		t.Fatalf("expected exactly one stored order, got %d", n)
	}

	updated, err := f.store.TransitionStatus(ctx, order.ID.Hex(), models.StatusPreparing)
	if err != nil || updated.Status != models.StatusPreparing {
		t.Fatalf("transition: %v", err)
	}
	if _, err := f.store.SetPaymentStatus(ctx, order.ID.Hex(), models.PaymentPaid); err != nil {
		t.Fatalf("payment: %v", err)
	}

	if _, err := f.store.Get(ctx, order.ID.Hex()); err == nil {
		t.Fatal("expected reads to report the catalog failure")
	}
}

func TestListRejectsBadFilters(t *testing.T) {
	f := newFixture()

	_, _, err := f.store.List(context.Background(), Filter{Status: "lost", OrderType: "drone", SortBy: "$where"})

	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three validation messages, got %v", err)
	}
}

func TestSetPaymentStatus(t *testing.T) {
	f := newFixture()
	order := f.create(t)

	paid, err := f.store.SetPaymentStatus(context.Background(), order.ID.Hex(), models.PaymentPaid)
	if err != nil {
		t.Fatalf("set payment: %v", err)
	}
	if paid.PaymentStatus != models.PaymentPaid || paid.Status != models.StatusPlaced {
		t.Fatalf("unexpected order %+v", paid)
	}

	var verr *apperr.ValidationError
	if _, err := f.store.SetPaymentStatus(context.Background(), order.ID.Hex(), "waived"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
