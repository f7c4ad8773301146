package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/karangtaruna-pekunden/marketplace/internal/cart"
	"github.com/karangtaruna-pekunden/marketplace/internal/catalog"
	"github.com/karangtaruna-pekunden/marketplace/pkg/rupiah"
	"github.com/karangtaruna-pekunden/marketplace/pkg/types"
)

const additionalMessage = "Mohon konfirmasi ketersediaan produk dan waktu pengiriman. Terima kasih!"

// Line is one product row of an order message.
type Line struct {
	Name     string
	Category string
	Unit     string
	Price    decimal.Decimal
	Quantity int
	Note     string
}

// Subtotal is price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is everything the WhatsApp message needs.
type Order struct {
	Lines        []Line
	Total        decimal.Decimal
	ShippingCost *int64
	Address      *types.Address
}

// ItemCount sums quantities across lines.
func (o Order) ItemCount() int {
	count := 0
	for _, line := range o.Lines {
		count += line.Quantity
	}
	return count
}

// OrderFromCart converts a cart snapshot.
func OrderFromCart(state cart.State) Order {
	lines := make([]Line, 0, len(state.Items))
	for _, item := range state.Items {
		lines = append(lines, Line{
			Name:     item.Product.Name,
			Category: item.Product.Category,
			Unit:     item.Product.Unit,
			Price:    item.Product.Price,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}
	return Order{
		Lines:        lines,
		Total:        state.Total,
		ShippingCost: state.ShippingCost,
		Address:      state.Address,
	}
}

// OrderFromProduct builds the single-line order used by "Pesan via WhatsApp".
func OrderFromProduct(product catalog.CartProduct, quantity int) Order {
	line := Line{
		Name:     product.Name,
		Category: product.Category,
		Unit:     product.Unit,
		Price:    product.Price,
		Quantity: quantity,
	}
	return Order{
		Lines: []Line{line},
		Total: line.Subtotal(),
	}
}

// ComposeMessage renders the order text sent to the store's WhatsApp number.
func ComposeMessage(storeName string, order Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Pesanan dari %s*\n\n", storeName)

	rows := make([]string, 0, len(order.Lines))
	for i, line := range order.Lines {
		rows = append(rows, composeLine(i+1, line))
	}
	b.WriteString(strings.Join(rows, "\n"))

	b.WriteString("*Ringkasan Pesanan:*\n")
	fmt.Fprintf(&b, "Total Item: %d item\n", order.ItemCount())
	fmt.Fprintf(&b, "Total Harga: %s\n", rupiah.Format(order.Total))
	if order.ShippingCost != nil && *order.ShippingCost > 0 {
		fmt.Fprintf(&b, "Ongkos Kirim: %s\n", rupiah.FormatInt(*order.ShippingCost))
		fmt.Fprintf(&b, "Total Bayar: %s", rupiah.Format(order.Total.Add(decimal.NewFromInt(*order.ShippingCost))))
	} else {
		b.WriteString("Ongkos Kirim: Gratis")
	}

	b.WriteString("\n\n*Pesan Tambahan:*\n")
	b.WriteString(additionalMessage)
	fmt.Fprintf(&b, "\n\n---\n_Pesanan melalui %s_", storeName)

	if order.Address != nil {
		b.WriteString(composeAddress(*order.Address))
	}
	return b.String()
}

func composeLine(position int, line Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s*\n", position, line.Name)
	fmt.Fprintf(&b, "   Kategori: %s\n", line.Category)
	fmt.Fprintf(&b, "   Harga: %s %s\n", rupiah.Format(line.Price), line.Unit)
	fmt.Fprintf(&b, "   Jumlah: %d\n", line.Quantity)
	fmt.Fprintf(&b, "   Subtotal: %s\n", rupiah.Format(line.Subtotal()))
	if note := strings.TrimSpace(line.Note); note != "" {
		fmt.Fprintf(&b, "   Catatan: %s\n", note)
	}
	return b.String()
}

func composeAddress(address types.Address) string {
	label := address.Label()
	if label == "" {
		return ""
	}
	out := "\nAlamat Pengiriman:\n" + label
	if detail := strings.TrimSpace(address.Detail); detail != "" {
		out += "\n\nDetail Alamat:\n" + detail
	}
	return out
}
