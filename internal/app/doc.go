// Package app provides the application service layer.
//
// Orchestrates use cases: scrape passes over subreddit feeds, duplicate
// removal, timestamp verification, and reporting views. Sits between entry
// points and domain repositories. Depends on domain interfaces, not concrete
// implementations.
package app
