package models

import (
	"time"

	"github.com/erp/storefront/internal/domain/customer"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	BaseModel
	UserID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	Phone      string              `gorm:"type:varchar(255)"`
	BirthDate  *time.Time          `gorm:"type:date"`
	Membership customer.Membership `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Phone:             m.Phone,
		BirthDate:         m.BirthDate,
		Membership:        m.Membership,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.Phone = c.Phone
	m.BirthDate = c.BirthDate
	m.Membership = c.Membership
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
