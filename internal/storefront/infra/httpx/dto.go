package httpx

import "github.com/jcmexdev/product-catalog/internal/cartstore"

type CartResponse struct {
	Items         []CartItemDTO `json:"items"`
	TotalQuantity int           `json:"totalQuantity"`
}

type CartItemDTO struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapCartToResponse(st cartstore.State) CartResponse {
	items := make([]CartItemDTO, len(st.Items))
	for i, it := range st.Items {
		items[i] = CartItemDTO{ID: it.ID, Quantity: it.Quantity}
	}
	return CartResponse{
		Items:         items,
		TotalQuantity: cartstore.TotalQuantity(st),
	}
}
