package stores

import "time"

type Store struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	LogoURL           *string   `json:"logo_url"`
	BannerURL         *string   `json:"banner_url"`
	FooterText        *string   `json:"footer_text"`
	WhatsappNumber    *string   `json:"whatsapp_number"`
	Email             *string   `json:"email"`
	Address           *string   `json:"address"`
	BankAccountName   *string   `json:"bank_account_name"`
	BankAccountNumber *string   `json:"bank_account_number"`
	BankName          *string   `json:"bank_name"`
	QRISImageURL      *string   `json:"qris_image_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PaymentInfo is the reduced store view a guest needs to pay for an order.
type PaymentInfo struct {
	Name              string  `json:"name"`
	WhatsappNumber    *string `json:"whatsapp_number"`
	BankAccountName   *string `json:"bank_account_name"`
	BankAccountNumber *string `json:"bank_account_number"`
	BankName          *string `json:"bank_name"`
	QRISImageURL      *string `json:"qris_image_url"`
}

func (s *Store) PaymentInfo() *PaymentInfo {
	return &PaymentInfo{
		Name:              s.Name,
		WhatsappNumber:    s.WhatsappNumber,
		BankAccountName:   s.BankAccountName,
		BankAccountNumber: s.BankAccountNumber,
		BankName:          s.BankName,
		QRISImageURL:      s.QRISImageURL,
	}
}

// Patch carries the editable profile fields. Nil means "leave unchanged".
type Patch struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=120"`
	LogoURL           *string `json:"logo_url" validate:"omitempty,url"`
	BannerURL         *string `json:"banner_url" validate:"omitempty,url"`
	FooterText        *string `json:"footer_text" validate:"omitempty,max=500"`
	WhatsappNumber    *string `json:"whatsapp_number" validate:"omitempty,numeric,min=8,max=16"`
	Email             *string `json:"email" validate:"omitempty,email"`
	Address           *string `json:"address" validate:"omitempty,max=500"`
	BankAccountName   *string `json:"bank_account_name" validate:"omitempty,max=120"`
	BankAccountNumber *string `json:"bank_account_number" validate:"omitempty,numeric,max=32"`
	BankName          *string `json:"bank_name" validate:"omitempty,max=60"`
	QRISImageURL      *string `json:"qris_image_url" validate:"omitempty,url"`
}

// Apply copies every non-nil field of p onto s.
func (p Patch) Apply(s *Store) {
	set := func(dst **string, v *string) {
		if v != nil {
			c := *v
			*dst = &c
		}
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	set(&s.LogoURL, p.LogoURL)
	set(&s.BannerURL, p.BannerURL)
	set(&s.FooterText, p.FooterText)
	set(&s.WhatsappNumber, p.WhatsappNumber)
	set(&s.Email, p.Email)
	set(&s.Address, p.Address)
	set(&s.BankAccountName, p.BankAccountName)
	set(&s.BankAccountNumber, p.BankAccountNumber)
	set(&s.BankName, p.BankName)
	set(&s.QRISImageURL, p.QRISImageURL)
}
