// Package customer defines the customer entity.
package customer

import (
	"encoding/json"

	"github.com/xenking/shoplite/internal/domain/validate"
)

// Customer is a validated customer record. Name, email and phone are only
// reachable through the constructor and setters, so an existing Customer
// always holds valid values. ID is zero until the store assigns one.
type Customer struct {
	ID int64

	name  string
	email string
	phone string
}

// New validates the given fields and returns a customer with no assigned ID.
func New(name, email, phone string) (*Customer, error) {
	c := &Customer{}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetEmail(email); err != nil {
		return nil, err
	}
	if err := c.SetPhone(phone); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the customer name.
func (c *Customer) Name() string { return c.name }

// Email returns the customer email, empty when not set.
func (c *Customer) Email() string { return c.email }

// Phone returns the customer phone, empty when not set.
func (c *Customer) Phone() string { return c.phone }

// SetName replaces the name, rejecting empty values in place.
func (c *Customer) SetName(v string) error {
	name, err := validate.Name(v)
	if err != nil {
		return err
	}
	c.name = name
	return nil
}

// SetEmail replaces the email, rejecting malformed addresses in place.
func (c *Customer) SetEmail(v string) error {
	email, err := validate.Email(v)
	if err != nil {
		return err
	}
	c.email = email
	return nil
}

// SetPhone replaces the phone, rejecting malformed numbers in place.
func (c *Customer) SetPhone(v string) error {
	phone, err := validate.Phone(v)
	if err != nil {
		return err
	}
	c.phone = phone
	return nil
}

// MarshalJSON serializes the customer with its full field set.
func (c *Customer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}{c.ID, c.name, c.email, c.phone})
}
