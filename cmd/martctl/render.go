package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Skotchmaster/friendly_mart/internal/addresses"
	"github.com/Skotchmaster/friendly_mart/internal/cart"
	"github.com/Skotchmaster/friendly_mart/internal/checkout"
	"github.com/Skotchmaster/friendly_mart/internal/orders"
	"github.com/Skotchmaster/friendly_mart/internal/resource"
	"github.com/Skotchmaster/friendly_mart/internal/transport"
	"github.com/Skotchmaster/friendly_mart/internal/wishlist"
)

func table(out io.Writer, header string, rows func(w io.Writer)) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	tw.Flush()
}

// message prints the view's status text and reports whether rows follow.
func message[T any](out io.Writer, v resource.View[T]) bool {
	if v.State == resource.Ready {
		return true
	}
	if v.Message != "" {
		fmt.Fprintln(out, v.Message)
	}
	return false
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func printCategories(out io.Writer, cats []transport.Category) {
	table(out, "ID\tNAME", func(w io.Writer) {
		for _, c := range cats {
			fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		}
	})
}

func printProducts(out io.Writer, v resource.View[transport.Product]) {
	if !message(out, v) {
		return
	}
	table(out, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tSELLER", func(w io.Writer) {
		for _, p := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
				p.ID, p.Name, p.CategoryName, money(p.DiscountedPrice), p.Stock, p.SellerName)
		}
	})
}

func printProductDetail(out io.Writer, p transport.Product) {
	fmt.Fprintf(out, "#%d %s\n", p.ID, p.Name)
	if p.DiscountPercentage > 0 {
		fmt.Fprintf(out, "price: %s (was %s, %.0f%% off)\n", money(p.DiscountedPrice), money(p.Price), p.DiscountPercentage)
	} else {
		fmt.Fprintf(out, "price: %s\n", money(p.Price))
	}
	fmt.Fprintf(out, "stock: %d\n", p.Stock)
	if p.CategoryName != "" {
		fmt.Fprintf(out, "category: %s\n", p.CategoryName)
	}
	if p.Description != "" {
		fmt.Fprintln(out, p.Description)
	}
}

// printGrouped lists subcategories by name.
func printGrouped(out io.Writer, groups map[string][]transport.Product) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "No subcategories found.")
		return
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s (%d)\n", name, len(groups[name]))
		for _, p := range groups[name] {
			fmt.Fprintf(out, "  #%d %s  %s\n", p.ID, p.Name, money(p.DiscountedPrice))
		}
	}
}

func printProfile(out io.Writer, p transport.Profile) {
	fmt.Fprintf(out, "%s (@%s)\n", p.Name, p.Username)
	fmt.Fprintf(out, "email: %s\n", p.Email)
	if p.StoreName != "" {
		fmt.Fprintf(out, "store: %s\n", p.StoreName)
	}
	if !p.DateJoined.IsZero() {
		fmt.Fprintf(out, "joined: %s\n", p.DateJoined.Format("2006-01-02"))
	}
}

func printCart(out io.Writer, v resource.View[cart.Line], subtotal float64) {
	if !message(out, v) {
		return
	}
	table(out, "ID\tPRODUCT\tPRICE\tQTY\tTOTAL", func(w io.Writer) {
		for _, l := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", l.ProductID, l.Name, money(l.UnitPrice), l.Quantity, money(l.Total()))
		}
	})
	fmt.Fprintf(out, "subtotal: %s\n", money(subtotal))
}

func printOrders(out io.Writer, v resource.View[orders.Record]) {
	if !message(out, v) {
		return
	}
	table(out, "ID\tSTATUS\tITEMS\tTOTAL\tPLACED", func(w io.Writer) {
		for _, o := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", o.ID, o.Status, len(o.Items), money(o.TotalPrice), o.CreatedAt.Format("2006-01-02 15:04"))
		}
	})
}

func printOrderDetail(out io.Writer, o orders.Record) {
	fmt.Fprintf(out, "order #%d %s\n", o.ID, o.Status)
	table(out, "PRODUCT\tPRICE\tQTY", func(w io.Writer) {
		for _, l := range o.Items {
			fmt.Fprintf(w, "%s\t%s\t%d\n", l.ProductName, money(l.Price), l.Quantity)
		}
	})
	fmt.Fprintf(out, "total: %s\n", money(o.TotalPrice))
}

func printWishlist(out io.Writer, v resource.View[wishlist.Entry]) {
	if !message(out, v) {
		return
	}
	table(out, "ID\tPRODUCT\tPRICE", func(w io.Writer) {
		for _, e := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.ProductID, e.Name, money(e.Price))
		}
	})
}

func printAddresses(out io.Writer, v resource.View[addresses.Record]) {
	if !message(out, v) {
		return
	}
	table(out, "ID\tNAME\tADDRESS\tDEFAULT", func(w io.Writer) {
		for _, a := range v.Items {
			def := ""
			if a.IsDefault {
				def = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s, %s, %s %s, %s\t%s\n",
				a.ID, a.FullName, a.Line1, a.City, a.State, a.PostalCode, a.Country, def)
		}
	})
}

func printFieldErrors(out io.Writer, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(out, "  %s: %s\n", f, errs[f])
	}
}

func printQuote(out io.Writer, q checkout.Quote) {
	fmt.Fprintf(out, "subtotal: %s\ndiscount: -%s\ndelivery: %s\ntotal:    %s\n",
		money(q.Subtotal), money(q.Discount), money(q.Delivery), money(q.Total))
}

func printUsers(out io.Writer, v resource.View[transport.User]) {
	if !message(out, v) {
		return
	}
	table(out, "ID\tUSERNAME\tEMAIL\tROLES", func(w io.Writer) {
		for _, u := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, userRoles(u))
		}
	})
}

func userRoles(u transport.User) string {
	var roles []string
	if u.IsStaff {
		roles = append(roles, "staff")
	}
	if u.IsSeller {
		roles = append(roles, "seller")
	}
	if u.IsDeliveryAgent {
		roles = append(roles, "delivery")
	}
	if len(roles) == 0 {
		return "customer"
	}
	return strings.Join(roles, ",")
}

func printAdminOrders(out io.Writer, v resource.View[transport.AdminOrder]) {
	if !message(out, v) {
		return
	}
	table(out, "ORDER\tCUSTOMER\tEMAIL\tTOTAL\tSTATUS\tPLACED", func(w io.Writer) {
		for _, o := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				o.ID, o.CustomerName, o.CustomerEmail, money(o.TotalPrice), o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
		}
	})
}

func printSellerOrders(out io.Writer, v resource.View[transport.SellerOrder]) {
	if !message(out, v) {
		return
	}
	table(out, "ORDER\tPRODUCT\tQTY\tPRICE\tCUSTOMER\tSTATUS", func(w io.Writer) {
		for _, o := range v.Items {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n", o.OrderID, o.ProductName, o.Quantity, money(o.Price), o.CustomerName, o.Status)
		}
	})
}

func printDeliveries(out io.Writer, v resource.View[transport.DeliveryOrder]) {
	if !message(out, v) {
		return
	}
	table(out, "ORDER\tCUSTOMER\tTOTAL\tSTATUS\tADDRESS", func(w io.Writer) {
		for _, d := range v.Items {
			addr := "-"
			if a := d.Address; a != nil {
				addr = fmt.Sprintf("%s, %s %s", a.Street, a.City, a.PostalCode)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.OrderID, d.CustomerName, money(d.TotalPrice), d.Status, addr)
		}
	})
}
