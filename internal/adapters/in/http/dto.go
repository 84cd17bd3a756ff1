package http

import (
	"time"

	"shopping/internal/core/application/usecases/queries"
	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/domain/model/product"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type NewOrder struct {
	UserID string        `json:"userId"`
	Items  []ItemRequest `json:"items"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type NewProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   int64  `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"lineTotal"`
}

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Status     string      `json:"status"`
	StatusName string      `json:"statusName"`
	TotalPrice int64       `json:"totalPrice"`
	OrderDate  time.Time   `json:"orderDate"`
	Items      []OrderItem `json:"items"`
}

type Cart struct {
	UserID     string      `json:"userId"`
	TotalPrice int64       `json:"totalPrice"`
	Items      []OrderItem `json:"items"`
}

type OrderSummary struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"totalPrice"`
	ItemCount  int       `json:"itemCount"`
	OrderDate  time.Time `json:"orderDate"`
}

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

func toOrderItems(items []order.Item) []OrderItem {
	lines := make([]OrderItem, len(items))
	for i, item := range items {
		lines[i] = OrderItem{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
			LineTotal:   item.LineTotal(),
		}
	}
	return lines
}

func toOrder(o *order.Order) Order {
	return Order{
		ID:         o.ID(),
		UserID:     o.UserID(),
		Status:     o.Status().String(),
		StatusName: o.Status().DisplayName(),
		TotalPrice: o.TotalPrice(),
		OrderDate:  o.OrderDate(),
		Items:      toOrderItems(o.Items()),
	}
}

func toCart(c *cart.Cart) Cart {
	return Cart{
		UserID:     c.UserID(),
		TotalPrice: c.TotalPrice(),
		Items:      toOrderItems(c.Items()),
	}
}

func toOrders(orders []*order.Order) []Order {
	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}
	return response
}

func toOrderSummaries(rows []queries.GetActiveOrdersQueryResponse) []OrderSummary {
	response := make([]OrderSummary, len(rows))
	for i, row := range rows {
		response[i] = OrderSummary{
			ID:         row.ID,
			UserID:     row.UserID,
			Status:     row.Status.String(),
			TotalPrice: row.TotalPrice,
			ItemCount:  row.ItemCount,
			OrderDate:  row.OrderDate,
		}
	}
	return response
}

func toProduct(p *product.Product) Product {
	return Product{
		ID:    p.ID(),
		Name:  p.Name(),
		Price: p.Price(),
		Stock: p.Stock(),
	}
}
