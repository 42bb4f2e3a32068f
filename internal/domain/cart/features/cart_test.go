package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/domain/cart/mocks"
)

var featureNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

type cartTestContext struct {
	backend *mocks.MockBackend
	engine  *cart.Engine
	summary *cart.Summary
	err     error
}

func (c *cartTestContext) reset() {
	c.backend = mocks.NewMockBackend()
	c.engine = cart.NewEngine(c.backend, cart.EngineConfig{
		Now: func() time.Time { return featureNow },
	}, nil)
	c.summary = nil
	c.err = nil
}

func (c *cartTestContext) theCartContains(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("cart table needs a header and at least one row")
	}
	header := table.Rows[0].Cells
	stores := make(map[string]*cart.Snapshot)
	var order []string

	for _, row := range table.Rows[1:] {
		col := make(map[string]string, len(header))
		for i, cell := range row.Cells {
			col[header[i].Value] = cell.Value
		}

		price, err := strconv.Atoi(col["price"])
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		discount, err := strconv.Atoi(col["discount"])
		if err != nil {
			return fmt.Errorf("discount: %w", err)
		}
		qty, err := strconv.Atoi(col["quantity"])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		var stock *int
		if col["stock"] != "" {
			n, err := strconv.Atoi(col["stock"])
			if err != nil {
				return fmt.Errorf("stock: %w", err)
			}
			stock = &n
		}

		storeID := col["store"]
		s, ok := stores[storeID]
		if !ok {
			s = &cart.Snapshot{StoreID: storeID, StoreName: "가게 " + storeID}
			stores[storeID] = s
			order = append(order, storeID)
		}
		added := featureNow.Add(-24 * time.Hour)
		s.Lines = append(s.Lines, cart.RawLine{
			LineID:        col["line"],
			ItemID:        "item-" + col["line"],
			ItemName:      col["name"],
			OriginalPrice: price,
			DiscountRate:  &discount,
			Quantity:      qty,
			StatusTag:     col["status"],
			Stock:         stock,
			AddedAt:       &added,
		})
	}

	for _, id := range order {
		c.backend.PutStore(*stores[id])
	}
	return nil
}

func (c *cartTestContext) theCartIsLoaded() error {
	return c.engine.Load(context.Background())
}

func (c *cartTestContext) iDeselectEverything() error {
	c.engine.SelectAll(false)
	return nil
}

func (c *cartTestContext) iSelectEverything() error {
	c.engine.SelectAll(true)
	return nil
}

func (c *cartTestContext) iToggleLine(lineID string) error {
	return c.engine.SelectLine(lineID)
}

func (c *cartTestContext) iSetTheQuantityOfLineTo(lineID string, qty int) error {
	return c.engine.SetQuantity(context.Background(), lineID, qty)
}

func (c *cartTestContext) iClearStore(storeID string) error {
	return c.engine.ClearStore(context.Background(), storeID)
}

func (c *cartTestContext) iCheckOut() error {
	c.summary, c.err = c.engine.Checkout()
	return nil
}

func (c *cartTestContext) view() cart.View {
	v, _ := c.engine.View()
	return v
}

func (c *cartTestContext) theCartHasStoreGroups(n int) error {
	if got := len(c.view().Groups); got != n {
		return fmt.Errorf("expected %d store groups, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theOriginalTotalIs(n int) error {
	if got := c.view().Totals.OriginalTotal; got != n {
		return fmt.Errorf("expected original total %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theSellingTotalIs(n int) error {
	if got := c.view().Totals.SellingTotal; got != n {
		return fmt.Errorf("expected selling total %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theDiscountTotalIs(n int) error {
	if got := c.view().Totals.DiscountTotal; got != n {
		return fmt.Errorf("expected discount total %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) lineIsSelected(lineID string) error {
	l, ok := c.view().FindLine(lineID)
	if !ok {
		return fmt.Errorf("line %s not in cart", lineID)
	}
	if !l.IsSelected {
		return fmt.Errorf("expected line %s to be selected", lineID)
	}
	return nil
}

func (c *cartTestContext) lineIsNotSelected(lineID string) error {
	l, ok := c.view().FindLine(lineID)
	if !ok {
		return fmt.Errorf("line %s not in cart", lineID)
	}
	if l.IsSelected {
		return fmt.Errorf("expected line %s not to be selected", lineID)
	}
	return nil
}

func (c *cartTestContext) storeIsFullySelected(storeID string) error {
	g, ok := c.view().FindGroup(storeID)
	if !ok {
		return fmt.Errorf("store %s not in cart", storeID)
	}
	if !g.IsAllSelected {
		return fmt.Errorf("expected store %s to be fully selected", storeID)
	}
	return nil
}

func (c *cartTestContext) storeIsNotFullySelected(storeID string) error {
	g, ok := c.view().FindGroup(storeID)
	if !ok {
		return fmt.Errorf("store %s not in cart", storeID)
	}
	if g.IsAllSelected {
		return fmt.Errorf("expected store %s not to be fully selected", storeID)
	}
	return nil
}

func (c *cartTestContext) storeIsAbsent(storeID string) error {
	if _, ok := c.view().FindGroup(storeID); ok {
		return fmt.Errorf("expected store %s to be absent", storeID)
	}
	return nil
}

func (c *cartTestContext) lineHasQuantity(lineID string, qty int) error {
	l, ok := c.view().FindLine(lineID)
	if !ok {
		return fmt.Errorf("line %s not in cart", lineID)
	}
	if l.Quantity != qty {
		return fmt.Errorf("expected quantity %d for line %s, got %d", qty, lineID, l.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCheckoutAmountIs(amount int) error {
	if c.err != nil {
		return fmt.Errorf("checkout failed: %w", c.err)
	}
	if c.summary.Amount != amount {
		return fmt.Errorf("expected checkout amount %d, got %d", amount, c.summary.Amount)
	}
	return nil
}

func (c *cartTestContext) theOrderIsNamed(label string) error {
	if c.summary == nil {
		return errors.New("no checkout summary")
	}
	if c.summary.OrderLabel != label {
		return fmt.Errorf("expected order name %q, got %q", label, c.summary.OrderLabel)
	}
	return nil
}

func (c *cartTestContext) checkoutFailsWith(code string) error {
	if c.err == nil {
		return errors.New("expected checkout to fail")
	}
	if c.err.Error() != code {
		return fmt.Errorf("expected %q, got %q", code, c.err.Error())
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the cart contains:$`, tc.theCartContains)

	// When steps
	ctx.Step(`^the cart is loaded$`, tc.theCartIsLoaded)
	ctx.Step(`^I deselect everything$`, tc.iDeselectEverything)
	ctx.Step(`^I select everything$`, tc.iSelectEverything)
	ctx.Step(`^I toggle line "([^"]*)"$`, tc.iToggleLine)
	ctx.Step(`^I set the quantity of line "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfLineTo)
	ctx.Step(`^I clear store "([^"]*)"$`, tc.iClearStore)
	ctx.Step(`^I check out$`, tc.iCheckOut)

	// Then steps
	ctx.Step(`^the cart has (\d+) store groups$`, tc.theCartHasStoreGroups)
	ctx.Step(`^the original total is (\d+)$`, tc.theOriginalTotalIs)
	ctx.Step(`^the selling total is (\d+)$`, tc.theSellingTotalIs)
	ctx.Step(`^the discount total is (\d+)$`, tc.theDiscountTotalIs)
	ctx.Step(`^line "([^"]*)" is selected$`, tc.lineIsSelected)
	ctx.Step(`^line "([^"]*)" is not selected$`, tc.lineIsNotSelected)
	ctx.Step(`^store "([^"]*)" is fully selected$`, tc.storeIsFullySelected)
	ctx.Step(`^store "([^"]*)" is not fully selected$`, tc.storeIsNotFullySelected)
	ctx.Step(`^store "([^"]*)" is absent$`, tc.storeIsAbsent)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^the checkout amount is (\d+)$`, tc.theCheckoutAmountIs)
	ctx.Step(`^the order is named "([^"]*)"$`, tc.theOrderIsNamed)
	ctx.Step(`^checkout fails with "([^"]*)"$`, tc.checkoutFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
