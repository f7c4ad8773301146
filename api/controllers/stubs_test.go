package controllers

import (
	"context"
	"errors"
	"io"

	"github.com/karangtaruna-pekunden/marketplace/internal/assistant"
	"github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/internal/checkout"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/gemini"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubCatalog struct {
	lastFilter catalog.Filter
	products   map[string]catalog.Product
}

func (s *stubCatalog) ListProducts(_ context.Context, filter catalog.Filter) (*catalog.ProductPage, error) {
	s.lastFilter = filter
	return &catalog.ProductPage{Items: []catalog.Product{}, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func (s *stubCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	return []catalog.Category{{ID: "1", Key: "makanan", Name: "Makanan"}}, nil
}

func (s *stubCatalog) Refresh(context.Context) error { return nil }

type cartCall struct {
	method    string
	cartID    string
	productID string
	quantity  int
	note      string
	address   types.Address
}

type stubCart struct {
	calls []cartCall
	err   error
}

func (s *stubCart) record(c cartCall) (*cart.State, error) {
	s.calls = append(s.calls, c)
	if s.err != nil {
		return nil, s.err
	}
	state := cart.NewState(c.cartID)
	return &state, nil
}

func (s *stubCart) Create(context.Context) (*cart.State, error) {
	return s.record(cartCall{method: "create", cartID: "0b6c1f3e-1d2a-4b5c-8d7e-9f0a1b2c3d4e"})
}

func (s *stubCart) Get(_ context.Context, cartID string) (*cart.State, error) {
	return s.record(cartCall{method: "get", cartID: cartID})
}

func (s *stubCart) AddItem(_ context.Context, cartID, productID string, quantity int) (*cart.State, error) {
	return s.record(cartCall{method: "add", cartID: cartID, productID: productID, quantity: quantity})
}

func (s *stubCart) UpdateQuantity(_ context.Context, cartID, productID string, quantity int) (*cart.State, error) {
	return s.record(cartCall{method: "quantity", cartID: cartID, productID: productID, quantity: quantity})
}

func (s *stubCart) UpdateNote(_ context.Context, cartID, productID, note string) (*cart.State, error) {
	return s.record(cartCall{method: "note", cartID: cartID, productID: productID, note: note})
}

func (s *stubCart) RemoveItem(_ context.Context, cartID, productID string) (*cart.State, error) {
	return s.record(cartCall{method: "remove", cartID: cartID, productID: productID})
}

func (s *stubCart) Clear(_ context.Context, cartID string) (*cart.State, error) {
	return s.record(cartCall{method: "clear", cartID: cartID})
}

func (s *stubCart) SetAddress(_ context.Context, cartID string, address types.Address) (*cart.State, error) {
	return s.record(cartCall{method: "address", cartID: cartID, address: address})
}

func (s *stubCart) Dispatch(_ context.Context, cartID string, _ cart.Action) (*cart.State, error) {
	return s.record(cartCall{method: "dispatch", cartID: cartID})
}

type stubAddress struct {
	lastQuery string
	reverse   types.Address
	err       error
}

func (s *stubAddress) Search(_ context.Context, q string) ([]types.Address, error) {
	s.lastQuery = q
	return []types.Address{{FullAddress: "Jl. Pekunden, Semarang"}}, nil
}

func (s *stubAddress) Reverse(context.Context, float64, float64) (types.Address, error) {
	return s.reverse, s.err
}

type stubAssistant struct {
	answer *assistant.Answer
	err    error
	prompt string
}

func (s *stubAssistant) Ask(_ context.Context, prompt string, history []gemini.Content) (*assistant.Answer, error) {
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func (s *stubAssistant) Quote(context.Context, types.Address) assistant.Quote {
	return assistant.Quote{}
}

type stubCheckout struct {
	cartID    string
	productID string
	quantity  int
	err       error
}

func (s *stubCheckout) Checkout(_ context.Context, cartID string) (*checkout.Result, error) {
	s.cartID = cartID
	if s.err != nil {
		return nil, s.err
	}
	return &checkout.Result{ID: "h1", Kind: "cart", Message: "m", URL: "https://wa.me/62?text=m"}, nil
}

func (s *stubCheckout) DirectCheckout(_ context.Context, productID string, quantity int) (*checkout.Result, error) {
	s.productID = productID
	s.quantity = quantity
	return &checkout.Result{ID: "h2", Kind: "direct", Message: "m", URL: "https://wa.me/62?text=m"}, nil
}

var errBoom = errors.New("boom")
