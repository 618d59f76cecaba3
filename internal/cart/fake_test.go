package cart

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/Skotchmaster/friendly_mart/internal/testutil"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
)

// fakeCartAPI is an in-memory cart backend.
type fakeCartAPI struct {
	mu         sync.Mutex
	products   map[uint]transport.Product
	qty        map[uint]int
	order      []uint
	failUpdate bool
	status     int
}

func newFakeCartAPI(products ...transport.Product) *fakeCartAPI {
	f := &fakeCartAPI{products: map[uint]transport.Product{}, qty: map[uint]int{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCartAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		testutil.JSON(w, f.status, map[string]string{"detail": "Token is invalid or expired"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/cart/":
		cart := transport.Cart{Items: []transport.CartItem{}}
		for _, id := range f.order {
			p := f.products[id]
			cart.Items = append(cart.Items, transport.CartItem{ID: id, Product: p, DiscountedPrice: p.Price, Quantity: f.qty[id]})
			cart.TotalPrice += p.Price * float64(f.qty[id])
		}
		testutil.JSON(w, http.StatusOK, cart)

	case r.Method == http.MethodPost && r.URL.Path == "/cart/add/":
		var req transport.AddToCartRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		p, ok := f.products[req.ProductID]
		if !ok {
			testutil.JSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
			return
		}
		if f.qty[req.ProductID]+req.Quantity > p.Stock {
			testutil.JSON(w, http.StatusBadRequest, map[string]string{"error": "Only " + strconv.Itoa(p.Stock) + " left in stock"})
			return
		}
		if _, ok := f.qty[req.ProductID]; !ok {
			f.order = append(f.order, req.ProductID)
		}
		f.qty[req.ProductID] += req.Quantity
		testutil.JSON(w, http.StatusOK, map[string]string{"message": "Added"})

	case r.Method == http.MethodPost && r.URL.Path == "/cart/update/":
		if f.failUpdate {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req transport.UpdateCartRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.qty[req.ProductID] = req.Quantity
		testutil.JSON(w, http.StatusOK, map[string]string{"message": "Updated"})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/cart/remove/"):
		id, _ := strconv.Atoi(strings.Trim(strings.TrimPrefix(r.URL.Path, "/cart/remove/"), "/"))
		delete(f.qty, uint(id))
		kept := f.order[:0]
		for _, o := range f.order {
			if o != uint(id) {
				kept = append(kept, o)
			}
		}
		f.order = kept
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeCartAPI) set(productID uint, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.qty[productID]; !ok {
		f.order = append(f.order, productID)
	}
	f.qty[productID] = qty
}

func (f *fakeCartAPI) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeCartAPI) setFailUpdate(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpdate = fail
}
