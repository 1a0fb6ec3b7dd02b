// Package models defines domain entities and persistence interfaces for the notioncal sync service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Task] : A Notion task with optional due-date range and status
//   - [CacheEntry] : Last-synced fingerprint and target object ID for a task
//   - [ExportResult] : Created/updated/skipped/error counts for one run
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [SyncRun] : Historical record of an export run with its counters
//
// All persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
