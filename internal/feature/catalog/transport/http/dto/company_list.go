// Package dto defines data transfer objects for the catalog HTTP API.
package dto

// CompanyItem represents a selectable company in the API response.
type CompanyItem struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}
