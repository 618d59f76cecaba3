package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/Skotchmaster/friendly_mart/internal/addresses"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/catalog"
	"github.com/Skotchmaster/friendly_mart/internal/checkout"
	"github.com/Skotchmaster/friendly_mart/internal/console"
	"github.com/Skotchmaster/friendly_mart/internal/seller"
	"github.com/Skotchmaster/friendly_mart/internal/session"
)

type command struct {
	usage string
	// roles is nil when every role may run the command.
	roles []session.Role
	run   func(ctx context.Context, a *console.App, args []string, out io.Writer) error
}

func (c command) allows(r session.Role) bool {
	return len(c.roles) == 0 || slices.Contains(c.roles, r)
}

var (
	customerOnly = []session.Role{session.Customer}
	adminOnly    = []session.Role{session.Admin}
	sellerOnly   = []session.Role{session.Seller}
	deliveryOnly = []session.Role{session.Delivery}
	profileRoles = []session.Role{session.Customer, session.Seller}
)

var commands = map[string]command{
	"login":    {usage: "-u name -p password", run: runLogin},
	"logout":   {usage: "", run: runLogout},
	"register": {usage: "-u name -e email -p password", roles: customerOnly, run: runRegister},
	"whoami":   {usage: "", run: runWhoami},

	"categories": {usage: "", run: runCategories},
	"products":   {usage: "[-category id] [-q text] [-sub name]", run: runProducts},
	"product":    {usage: "<id>", run: runProduct},
	"grouped":    {usage: "<category-id>", run: runGrouped},

	"profile": {usage: "", roles: profileRoles, run: runProfile},

	"cart":   {usage: "", roles: customerOnly, run: runCart},
	"add":    {usage: "<product-id> [-qty n]", roles: customerOnly, run: runAdd},
	"remove": {usage: "<product-id>", roles: customerOnly, run: runRemove},
	"qty":    {usage: "<product-id> <quantity>", roles: customerOnly, run: runQty},

	"orders": {usage: "", roles: customerOnly, run: runOrders},
	"order":  {usage: "<id>", roles: customerOnly, run: runOrder},

	"wishlist": {usage: "", roles: customerOnly, run: runWishlist},
	"wish":     {usage: "<product-id>", roles: customerOnly, run: runWish},

	"addresses":   {usage: "", roles: customerOnly, run: runAddresses},
	"address-add": {usage: "-name -phone -street -city -state -postal [-country]", roles: customerOnly, run: runAddressAdd},

	"checkout": {usage: "-name -phone -email -address -city -state -pincode -pay cod|card|upi", roles: customerOnly, run: runCheckout},

	"users":          {usage: "", roles: adminOnly, run: runUsers},
	"promote-seller": {usage: "<user-id> -store name", roles: adminOnly, run: runPromoteSeller},
	"promote-agent":  {usage: "<user-id> -phone number", roles: adminOnly, run: runPromoteAgent},
	"delete-user":    {usage: "<user-id>", roles: adminOnly, run: runDeleteUser},
	"admin-products": {usage: "", roles: adminOnly, run: runAdminProducts},
	"delete-product": {usage: "<product-id>", roles: adminOnly, run: runAdminDeleteProduct},
	"all-orders":     {usage: "", roles: adminOnly, run: runAllOrders},

	"my-products": {usage: "", roles: sellerOnly, run: runSellerProducts},
	"my-orders":   {usage: "", roles: sellerOnly, run: runSellerOrders},
	"sell":        {usage: "-name -category -price -stock [-sub name] [-discount] [-desc]", roles: sellerOnly, run: runSellerAdd},
	"unlist":      {usage: "<product-id>", roles: sellerOnly, run: runSellerDelete},

	"deliveries": {usage: "", roles: deliveryOnly, run: runDeliveries},
	"deliver":    {usage: "<order-id> <status>", roles: deliveryOnly, run: runDeliver},
}

func parseID(args []string, i int) (uint, error) {
	if len(args) <= i {
		return 0, errUsage
	}
	v, err := strconv.ParseUint(args[i], 10, 64)
	if err != nil || v == 0 {
		return 0, errUsage
	}
	return uint(v), nil
}

// flagsAfterID parses flags that follow a leading positional id.
func flagsAfterID(fs *flag.FlagSet, args []string) (uint, error) {
	id, err := parseID(args, 0)
	if err != nil {
		return 0, err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return 0, errUsage
	}
	return id, nil
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func runLogin(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	fs := newFlags("login")
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	s, err := a.Session.Login(ctx, session.Credentials{Username: *user, Password: *pass})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s (%s)\n", s.Username, a.Role)
	return nil
}

func runLogout(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	a.Session.Logout(ctx)
	fmt.Fprintln(out, "logged out")
	return nil
}

func runRegister(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	fs := newFlags("register")
	user := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	pass := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	s, err := a.Session.Register(ctx, session.Registration{Username: *user, Email: *email, Password: *pass})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "registered and logged in as %s\n", s.Username)
	return nil
}

func runWhoami(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	s, ok := a.Session.Current(ctx)
	if !ok {
		return apperr.AuthRequired()
	}
	fmt.Fprintf(out, "%s (id %s, role %s)\n", s.Username, s.UserID, a.Role)
	return nil
}

func runCategories(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	cats, err := a.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	printCategories(out, cats)
	return nil
}

func runProducts(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	fs := newFlags("products")
	cat := fs.Uint("category", 0, "category id")
	q := fs.String("q", "", "search text")
	sub := fs.String("sub", "", "subcategory name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	a.Catalog.SetFilter(catalog.Filter{CategoryID: *cat, Query: *q, SubCategory: *sub})
	_, err := a.Catalog.Refresh(ctx)
	printProducts(out, a.Catalog.View())
	return err
}

func runProduct(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	p, err := a.Catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	printProductDetail(out, p)
	return nil
}

func runGrouped(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	groups, err := a.Catalog.Grouped(ctx, id)
	if err != nil {
		return err
	}
	printGrouped(out, groups)
	return nil
}

func runProfile(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	p, err := a.Profile.Load(ctx)
	if err != nil {
		return err
	}
	printProfile(out, p)
	return nil
}

func runCart(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Cart.Refresh(ctx)
	printCart(out, a.Cart.View(), a.Cart.Subtotal())
	return err
}

func runAdd(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	fs := newFlags("add")
	qty := fs.Int("qty", 1, "quantity")
	id, err := flagsAfterID(fs, args)
	if err != nil {
		return err
	}
	return a.Cart.Add(ctx, id, *qty)
}

func runRemove(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	return a.Cart.Remove(ctx, id)
}

// runQty loads the cart first so the local stock bound applies.
func runQty(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errUsage
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	if _, err := a.Cart.Refresh(ctx); err != nil {
		return err
	}
	if err := a.Cart.UpdateQuantity(ctx, id, qty); err != nil {
		return err
	}
	printCart(out, a.Cart.View(), a.Cart.Subtotal())
	return nil
}

func runOrders(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Orders.Refresh(ctx)
	printOrders(out, a.Orders.View())
	return err
}

func runOrder(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	o, err := a.Orders.Detail(ctx, id)
	if err != nil {
		return err
	}
	printOrderDetail(out, o)
	return nil
}

func runWishlist(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Wishlist.Refresh(ctx)
	printWishlist(out, a.Wishlist.View())
	return err
}

func runWish(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	if _, err := a.Wishlist.Refresh(ctx); err != nil {
		return err
	}
	return a.Wishlist.Toggle(ctx, id)
}

func runAddresses(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Addresses.Refresh(ctx)
	printAddresses(out, a.Addresses.View())
	return err
}

func runAddressAdd(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	fs := newFlags("address-add")
	var f addresses.Form
	fs.StringVar(&f.FullName, "name", "", "full name")
	fs.StringVar(&f.Phone, "phone", "", "10 digit phone")
	fs.StringVar(&f.Line1, "street", "", "street address")
	fs.StringVar(&f.City, "city", "", "city")
	fs.StringVar(&f.State, "state", "", "state")
	fs.StringVar(&f.PostalCode, "postal", "", "6 digit postal code")
	fs.StringVar(&f.Country, "country", "", "country")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return a.Addresses.Add(ctx, f)
}

// runCheckout walks the three steps in one go and places the order.
func runCheckout(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	fs := newFlags("checkout")
	var f checkout.Form
	fs.StringVar(&f.FullName, "name", "", "full name")
	fs.StringVar(&f.Phone, "phone", "", "10 digit phone")
	fs.StringVar(&f.Email, "email", "", "email")
	fs.StringVar(&f.Address, "address", "", "street address")
	fs.StringVar(&f.City, "city", "", "city")
	fs.StringVar(&f.State, "state", "", "state")
	fs.StringVar(&f.Pincode, "pincode", "", "6 digit pincode")
	fs.StringVar(&f.PaymentMethod, "pay", checkout.PaymentCOD, "cod, card or upi")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if _, err := a.Cart.Refresh(ctx); err != nil {
		return err
	}
	if err := a.Cart.Handoff(ctx, nil); err != nil {
		return err
	}
	flow := a.Checkout
	if err := flow.Start(ctx); err != nil {
		return err
	}
	flow.Edit(func(form *checkout.Form) {
		// keep prefilled values the flags leave empty
		merge(&form.FullName, f.FullName)
		merge(&form.Phone, f.Phone)
		merge(&form.Email, f.Email)
		merge(&form.Address, f.Address)
		merge(&form.City, f.City)
		merge(&form.State, f.State)
		merge(&form.Pincode, f.Pincode)
		merge(&form.PaymentMethod, f.PaymentMethod)
	})
	for step := 1; step < 3; step++ {
		if err := flow.Next(); err != nil {
			printFieldErrors(out, flow.Snapshot().Errors)
			return err
		}
	}
	printQuote(out, flow.Snapshot().Quote)
	if err := flow.Submit(ctx); err != nil {
		return err
	}
	if o := flow.Snapshot().Order; o != nil {
		fmt.Fprintf(out, "order #%d %s\n", o.ID, o.Status)
	}
	return nil
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func runUsers(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Admin.Users().Refresh(ctx)
	printUsers(out, a.Admin.Users().View())
	return err
}

func runPromoteSeller(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	fs := newFlags("promote-seller")
	store := fs.String("store", "", "store name")
	id, err := flagsAfterID(fs, args)
	if err != nil {
		return err
	}
	if err := a.Admin.PromoteSeller(ctx, id, *store); err != nil {
		return err
	}
	printUsers(out, a.Admin.Users().View())
	return nil
}

func runPromoteAgent(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	fs := newFlags("promote-agent")
	phone := fs.String("phone", "", "10 digit phone")
	id, err := flagsAfterID(fs, args)
	if err != nil {
		return err
	}
	if err := a.Admin.PromoteAgent(ctx, id, *phone); err != nil {
		return err
	}
	printUsers(out, a.Admin.Users().View())
	return nil
}

func runDeleteUser(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	return a.Admin.DeleteUser(ctx, id)
}

func runAdminProducts(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Admin.Products().Refresh(ctx)
	printProducts(out, a.Admin.Products().View())
	return err
}

func runAdminDeleteProduct(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	return a.Admin.DeleteProduct(ctx, id)
}

func runAllOrders(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Admin.Orders().Refresh(ctx)
	printAdminOrders(out, a.Admin.Orders().View())
	return err
}

func runSellerProducts(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Seller.Products().Refresh(ctx)
	printProducts(out, a.Seller.Products().View())
	return err
}

func runSellerOrders(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Seller.Orders().Refresh(ctx)
	printSellerOrders(out, a.Seller.Orders().View())
	return err
}

func runSellerAdd(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	fs := newFlags("sell")
	var f seller.ProductForm
	fs.StringVar(&f.Name, "name", "", "product name")
	fs.UintVar(&f.CategoryID, "category", 0, "category id")
	fs.StringVar(&f.SubCategory, "sub", "", "subcategory name")
	fs.Float64Var(&f.Price, "price", 0, "price")
	fs.IntVar(&f.Stock, "stock", 0, "units in stock")
	fs.Float64Var(&f.DiscountPercentage, "discount", 0, "discount percentage")
	fs.StringVar(&f.Description, "desc", "", "description")
	fs.StringVar(&f.Image, "image", "", "image URL")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return a.Seller.AddProduct(ctx, f)
}

func runSellerDelete(ctx context.Context, a *console.App, args []string, _ io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	return a.Seller.DeleteProduct(ctx, id)
}

func runDeliveries(ctx context.Context, a *console.App, _ []string, out io.Writer) error {
	_, err := a.Delivery.Orders().Refresh(ctx)
	printDeliveries(out, a.Delivery.Orders().View())
	return err
}

// runDeliver loads the assignments first; the transition check reads the
// current status from them.
func runDeliver(ctx context.Context, a *console.App, args []string, out io.Writer) error {
	id, err := parseID(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errUsage
	}
	if _, err := a.Delivery.Orders().Refresh(ctx); err != nil {
		return err
	}
	if err := a.Delivery.UpdateStatus(ctx, id, args[1]); err != nil {
		return err
	}
	printDeliveries(out, a.Delivery.Orders().View())
	return nil
}
