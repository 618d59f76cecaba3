package checkout

import (
	"regexp"
	"strings"
)

const (
	PaymentCOD  = "cod"
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

var (
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Form struct {
	FullName      string
	Phone         string
	Email         string
	Address       string
	City          string
	State         string
	Pincode       string
	PaymentMethod string
}

// validateStep returns field errors for one step's subset of the form.
func (f Form) validateStep(step int) map[string]string {
	errs := map[string]string{}
	switch step {
	case 1:
		if len(strings.TrimSpace(f.FullName)) < 2 {
			errs["fullName"] = "Name must be at least 2 characters"
		}
		if !phoneRe.MatchString(f.Phone) {
			errs["phone"] = "Phone number must be 10 digits"
		}
		if !emailRe.MatchString(f.Email) {
			errs["email"] = "Enter a valid email address"
		}
	case 2:
		if len(strings.TrimSpace(f.Address)) < 10 {
			errs["address"] = "Address must be at least 10 characters"
		}
		if strings.TrimSpace(f.City) == "" {
			errs["city"] = "City is required"
		}
		if strings.TrimSpace(f.State) == "" {
			errs["state"] = "State is required"
		}
		if !pincodeRe.MatchString(f.Pincode) {
			errs["pincode"] = "Pincode must be 6 digits"
		}
	case 3:
		switch f.PaymentMethod {
		case PaymentCOD, PaymentCard, PaymentUPI:
		default:
			errs["paymentMethod"] = "Select a payment method"
		}
	}
	return errs
}
