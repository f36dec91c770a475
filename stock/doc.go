// Package stock fetches market data from Alpha Vantage for the stock
// question short-circuit and the stock REST endpoints, and formats quotes
// for chat display.
package stock
