// Package repository provides a generic repository abstraction over a
// MongoDB collection for CRUD operations, filtered search, pagination,
// and CRUD on array-embedded sub-documents.
package repository
