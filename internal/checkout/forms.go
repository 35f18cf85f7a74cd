package checkout

// DeliveryForm holds the shipping details of the first checkout step.
type DeliveryForm struct {
	FullName     string `json:"full_name" validate:"required,notblank_trim,max=120"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,notblank_trim,max=32"`
	AddressLine1 string `json:"address_line1" validate:"required,notblank_trim,max=200"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"required,notblank_trim,max=120"`
	PostalCode   string `json:"postal_code" validate:"required,notblank_trim,max=20"`
	Country      string `json:"country" validate:"required,notblank_trim,max=80"`
}

// PaymentForm holds card details. They are validated and then dropped.
type PaymentForm struct {
	CardName   string `json:"card_name" validate:"required,notblank_trim,max=120"`
	CardNumber string `json:"card_number" validate:"required,card_number"`
	Expiry     string `json:"expiry" validate:"required,expiry"`
	CVC        string `json:"cvc" validate:"required,cvc"`
}
