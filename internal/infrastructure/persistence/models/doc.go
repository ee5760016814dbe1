// Package models contains the GORM models of the agent's local SQLite journal.
package models
