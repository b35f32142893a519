// Package searchservice serves full-text search over questions, articles,
// lessons and offline events and keeps the search indices in sync with the
// events the other contexts publish.
package searchservice
