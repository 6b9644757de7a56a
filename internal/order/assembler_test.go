package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kavara-store/internal/models"
)

func validForm() Form {
	return Form{
		CustomerName:   "Иван Петров",
		CustomerPhone:  "+79001234567",
		DeliveryMethod: DeliveryCourier,
		PaymentMethod:  PaymentCard,
	}
}

func TestTotalPrice(t *testing.T) {
	box := models.Box{Price: 8990, IsAvailable: true}

	total, err := TotalPrice(box, DeliveryCourier, PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, 9490, total)
}

func TestSurchargeTables(t *testing.T) {
	cases := []struct {
		delivery string
		payment  string
		want     int
	}{
		{DeliveryCourier, PaymentCard, 300},
		{DeliveryCourier, PaymentSBP, 300},
		{DeliveryCourier, PaymentCash, 500},
		{DeliveryCDEK, PaymentCard, 250},
		{DeliveryPickup, PaymentCard, 0},
		{DeliveryPickup, PaymentCash, 200},
	}

	box := models.Box{Price: 0, IsAvailable: true}
	for _, tc := range cases {
		total, err := TotalPrice(box, tc.delivery, tc.payment)
		require.NoError(t, err)
		assert.Equal(t, tc.want, total, "delivery=%s payment=%s", tc.delivery, tc.payment)
	}
}

func TestTotalPriceUnknownMethods(t *testing.T) {
	box := models.Box{Price: 1000, IsAvailable: true}

	_, err := TotalPrice(box, "teleport", PaymentCard)
	assert.ErrorIs(t, err, ErrUnknownDeliveryMethod)

	_, err = TotalPrice(box, DeliveryPickup, "barter")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestFormValidate(t *testing.T) {
	assert.NoError(t, validForm().Validate())

	f := validForm()
	f.CustomerName = ""
	assert.ErrorIs(t, f.Validate(), ErrMissingName)

	f = validForm()
	f.CustomerPhone = ""
	assert.ErrorIs(t, f.Validate(), ErrMissingPhone)

	f = validForm()
	f.DeliveryMethod = ""
	assert.ErrorIs(t, f.Validate(), ErrMissingDelivery)

	f = validForm()
	f.PaymentMethod = ""
	assert.ErrorIs(t, f.Validate(), ErrMissingPayment)

	// Email is never required.
	f = validForm()
	f.CustomerEmail = ""
	assert.NoError(t, f.Validate())
}

func TestNewOrderNumber(t *testing.T) {
	number := NewOrderNumber(time.Now())
	assert.Regexp(t, regexp.MustCompile(`^KB\d{6}$`), number)
}

func TestAssemble(t *testing.T) {
	box := models.Box{ID: "box-1", Price: 8990, IsAvailable: true}

	form := validForm()
	form.DeliveryMethod = DeliveryCourier
	form.PaymentMethod = PaymentCash

	o, err := Assemble(box, "user-1", form)
	require.NoError(t, err)

	assert.Equal(t, 9490, o.TotalPrice)
	assert.Equal(t, "box-1", o.BoxID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.NotEmpty(t, o.OrderNumber)
}

func TestAssembleRejectsUnavailableBox(t *testing.T) {
	box := models.Box{ID: "box-1", Price: 8990, IsAvailable: false}

	_, err := Assemble(box, "user-1", validForm())
	assert.ErrorIs(t, err, ErrBoxUnavailable)
}

func TestAssembleRejectsIncompleteForm(t *testing.T) {
	box := models.Box{ID: "box-1", Price: 8990, IsAvailable: true}

	f := validForm()
	f.CustomerPhone = ""
	_, err := Assemble(box, "user-1", f)
	assert.ErrorIs(t, err, ErrMissingPhone)
}
