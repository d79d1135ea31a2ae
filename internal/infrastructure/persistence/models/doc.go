// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain stays free of ORM tags.
//
// Each model provides TableName, ToDomain and FromDomain. Repositories only ever
// hand domain types to their callers.
package models
