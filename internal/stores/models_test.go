package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestPatchApply_OnlyTouchesSetFields(t *testing.T) {
	s := &Store{ID: "s1", Name: "Urban Outfit Local", BankName: strp("BCA"), Email: strp("a@b.id")}

	Patch{Name: strp("Urban Outfit"), QRISImageURL: strp("https://cdn.example/qris.png")}.Apply(s)

	assert.Equal(t, "Urban Outfit", s.Name)
	require.NotNil(t, s.QRISImageURL)
	assert.Equal(t, "https://cdn.example/qris.png", *s.QRISImageURL)
	assert.Equal(t, "BCA", *s.BankName)
	assert.Equal(t, "a@b.id", *s.Email)
	assert.Nil(t, s.LogoURL)
}

func TestPatchApply_CopiesValues(t *testing.T) {
	v := "BNI"
	s := &Store{}
	Patch{BankName: &v}.Apply(s)
	v = "changed"
	assert.Equal(t, "BNI", *s.BankName)
}

func TestPaymentInfo(t *testing.T) {
	s := &Store{
		Name:              "Urban Outfit Local",
		WhatsappNumber:    strp("628123456789"),
		BankAccountName:   strp("Urban Outfit Local"),
		BankAccountNumber: strp("1234567890"),
		BankName:          strp("BCA"),
		Address:           strp("Jl. Sudirman No. 12"),
	}

	info := s.PaymentInfo()
	assert.Equal(t, "Urban Outfit Local", info.Name)
	assert.Equal(t, "1234567890", *info.BankAccountNumber)
	assert.Nil(t, info.QRISImageURL)
}
