// Package models contains the GORM persistence models. Domain aggregates
// carry no persistence tags; each repository converts through the model types
// in this package with ToDomain/FromDomain pairs.
package models
