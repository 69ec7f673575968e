package entity

import (
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
)

// ResourceCost is a single billed line item of an invoice.
type ResourceCost struct {
	ResourceName string  `json:"resource_name"`
	ResourceID   string  `json:"resource_id,omitempty"`
	Rate         float64 `json:"rate"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
}

// Product groups the resources billed under one product of a category.
type Product struct {
	Name      string         `json:"name"`
	Resources []ResourceCost `json:"resources"`
}

// Category is one top-level entry of an invoice breakdown.
type Category struct {
	Name      string    `json:"name"`
	TotalCost float64   `json:"total_cost"`
	Products  []Product `json:"products"`
}

// Invoice is the billing record for one period. Categories and products keep
// the order in which the billing service returned them.
type Invoice struct {
	Period    string     `json:"period"`
	TotalCost float64    `json:"total_cost"`
	Details   []Category `json:"details"`
}

// InvoiceCollection is the decoded response of an invoice listing.
type InvoiceCollection struct {
	Start       string    `json:"start,omitempty"`
	End         string    `json:"end,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	ProjectName string    `json:"project_name,omitempty"`
	Invoices    []Invoice `json:"invoices"`
}

// Len returns the number of invoices in the collection.
func (c InvoiceCollection) Len() int {
	return len(c.Invoices)
}

// Latest returns the invoice with the greatest period key, independent of
// the order the invoices were returned in.
func (c InvoiceCollection) Latest() (Invoice, bool) {
	if len(c.Invoices) == 0 {
		return Invoice{}, false
	}
	latest := c.Invoices[0]
	for _, inv := range c.Invoices[1:] {
		if inv.Period > latest.Period {
			latest = inv
		}
	}
	return latest, true
}

// Find returns the invoice for the given period key.
func (c InvoiceCollection) Find(period string) (Invoice, bool) {
	for _, inv := range c.Invoices {
		if inv.Period == period {
			return inv, true
		}
	}
	return Invoice{}, false
}

// Periods lists the period keys in the order they were returned.
func (c InvoiceCollection) Periods() []string {
	periods := make([]string, 0, len(c.Invoices))
	for _, inv := range c.Invoices {
		periods = append(periods, inv.Period)
	}
	return periods
}

// UnmarshalJSON decodes the billing service payload. The service encodes
// invoices, categories and products as JSON objects; they are walked in
// document order so that the breakdown order survives decoding.
func (c *InvoiceCollection) UnmarshalJSON(data []byte) error {
	var out InvoiceCollection
	var err error

	if out.Start, err = optionalString(data, "start"); err != nil {
		return err
	}
	if out.End, err = optionalString(data, "end"); err != nil {
		return err
	}
	if out.ProjectID, err = optionalString(data, "project_id"); err != nil {
		return err
	}
	if out.ProjectName, err = optionalString(data, "project_name"); err != nil {
		return err
	}

	raw, dataType, _, err := jsonparser.Get(data, "invoices")
	switch {
	case dataType == jsonparser.NotExist, dataType == jsonparser.Null:
		*c = out
		return nil
	case err != nil:
		return fmt.Errorf("error reading invoices: %w", err)
	case dataType != jsonparser.Object:
		return fmt.Errorf("invoices: expected object, got %s", dataType)
	}

	err = jsonparser.ObjectEach(raw, func(key []byte, value []byte, vt jsonparser.ValueType, _ int) error {
		inv, err := decodeInvoice(string(key), value, vt)
		if err != nil {
			return err
		}
		out.Invoices = append(out.Invoices, inv)
		return nil
	})
	if err != nil {
		return err
	}

	*c = out
	return nil
}

func decodeInvoice(period string, data []byte, vt jsonparser.ValueType) (Invoice, error) {
	inv := Invoice{Period: period}
	if vt != jsonparser.Object {
		return inv, fmt.Errorf("invoice %s: expected object, got %s", period, vt)
	}

	var err error
	if inv.TotalCost, err = optionalNumber(data, "total_cost"); err != nil {
		return inv, fmt.Errorf("invoice %s: %w", period, err)
	}

	details, dt, _, err := jsonparser.Get(data, "details")
	if dt == jsonparser.NotExist || dt == jsonparser.Null {
		return inv, nil
	}
	if err != nil {
		return inv, fmt.Errorf("invoice %s: %w", period, err)
	}
	if dt != jsonparser.Object {
		return inv, fmt.Errorf("invoice %s: details: expected object, got %s", period, dt)
	}

	err = jsonparser.ObjectEach(details, func(key []byte, value []byte, vt jsonparser.ValueType, _ int) error {
		category, err := decodeCategory(string(key), value, vt)
		if err != nil {
			return fmt.Errorf("invoice %s: %w", period, err)
		}
		inv.Details = append(inv.Details, category)
		return nil
	})
	return inv, err
}

func decodeCategory(name string, data []byte, vt jsonparser.ValueType) (Category, error) {
	category := Category{Name: name}
	if vt != jsonparser.Object {
		return category, fmt.Errorf("category %s: expected object, got %s", name, vt)
	}

	var err error
	if category.TotalCost, err = optionalNumber(data, "total_cost"); err != nil {
		return category, fmt.Errorf("category %s: %w", name, err)
	}

	breakdown, bt, _, err := jsonparser.Get(data, "breakdown")
	if bt == jsonparser.NotExist || bt == jsonparser.Null {
		return category, nil
	}
	if err != nil {
		return category, fmt.Errorf("category %s: %w", name, err)
	}
	if bt != jsonparser.Object {
		return category, fmt.Errorf("category %s: breakdown: expected object, got %s", name, bt)
	}

	err = jsonparser.ObjectEach(breakdown, func(key []byte, value []byte, vt jsonparser.ValueType, _ int) error {
		product, err := decodeProduct(string(key), value, vt)
		if err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
		category.Products = append(category.Products, product)
		return nil
	})
	return category, err
}

func decodeProduct(name string, data []byte, vt jsonparser.ValueType) (Product, error) {
	product := Product{Name: name}
	if vt == jsonparser.Null {
		return product, nil
	}
	if vt != jsonparser.Array {
		return product, fmt.Errorf("product %s: expected array, got %s", name, vt)
	}

	var itemErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = err
			return
		}
		resource, err := decodeResource(value, vt)
		if err != nil {
			itemErr = fmt.Errorf("product %s: %w", name, err)
			return
		}
		product.Resources = append(product.Resources, resource)
	})
	if err != nil {
		return product, fmt.Errorf("product %s: %w", name, err)
	}
	return product, itemErr
}

func decodeResource(data []byte, vt jsonparser.ValueType) (ResourceCost, error) {
	var r ResourceCost
	if vt != jsonparser.Object {
		return r, fmt.Errorf("resource: expected object, got %s", vt)
	}

	var err error
	if r.ResourceName, err = optionalString(data, "resource_name"); err != nil {
		return r, err
	}
	if r.ResourceID, err = optionalString(data, "resource_id"); err != nil {
		return r, err
	}
	if r.Unit, err = optionalString(data, "unit"); err != nil {
		return r, err
	}
	if r.Rate, err = optionalNumber(data, "rate"); err != nil {
		return r, err
	}
	if r.Quantity, err = optionalNumber(data, "quantity"); err != nil {
		return r, err
	}
	if r.Cost, err = optionalNumber(data, "cost"); err != nil {
		return r, err
	}
	return r, nil
}

func optionalString(data []byte, key string) (string, error) {
	value, vt, _, err := jsonparser.Get(data, key)
	switch {
	case vt == jsonparser.NotExist, vt == jsonparser.Null:
		return "", nil
	case err != nil:
		return "", fmt.Errorf("%s: %w", key, err)
	case vt == jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", fmt.Errorf("%s: %w", key, err)
		}
		return s, nil
	case vt == jsonparser.Number:
		return string(value), nil
	default:
		return "", fmt.Errorf("%s: expected string, got %s", key, vt)
	}
}

// optionalNumber accepts JSON numbers and numeric strings; the billing
// service serialises decimals either way depending on its version.
func optionalNumber(data []byte, key string) (float64, error) {
	value, vt, _, err := jsonparser.Get(data, key)
	switch {
	case vt == jsonparser.NotExist, vt == jsonparser.Null:
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("%s: %w", key, err)
	case vt == jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return f, nil
	case vt == jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s: expected number, got %s", key, vt)
	}
}
