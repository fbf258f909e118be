package dto

// CheckoutSessionRequest solicitud de sesión de pago hospedada en la pasarela.
type CheckoutSessionRequest struct {
	Items           []CheckoutItem `json:"items"`
	ShippingAddress string         `json:"shippingAddress"`
}

// CheckoutItem línea del carrito enviada a la pasarela. Title solo se usa
// para la descripción de la sesión; el snapshot que vuelve por webhook
// lleva productId/size/color/quantity/price.
type CheckoutItem struct {
	ProductID string  `json:"product"`
	Title     string  `json:"title"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

// CheckoutSessionResponse URL de redirección al checkout hospedado.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}
